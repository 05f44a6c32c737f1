package engine

// initRequest is the wire contract between the engine and the sandbox-init
// helper, fed to the helper over stdin. The helper redeclares these shapes;
// field names must stay in sync.
type initRequest struct {
	Spec           Spec   `json:"Spec"`
	EnableSeccomp  bool   `json:"EnableSeccomp"`
	SeccompProfile string `json:"SeccompProfile"`
}
