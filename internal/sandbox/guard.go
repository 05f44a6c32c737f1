package sandbox

import (
	"fmt"
	"sort"
	"strings"

	pkgerrors "codeduel/pkg/errors"

	mapset "github.com/deckarep/golang-set/v2"
)

// forbiddenModules lists Python capability modules and builtins a submission
// may not reference. The check is lexical: it catches "import X" and
// "from X" spellings, not obfuscated access. Real containment comes from the
// engine's process boundary.
var forbiddenModules = mapset.NewSet(
	"os", "sys", "subprocess", "shutil", "socket", "requests",
	"urllib", "http", "ftplib", "smtplib", "ssl", "pty", "pwd",
	"grp", "crypt", "__import__", "eval", "exec", "compile",
	"open", "input", "raw_input", "importlib", "pkgutil",
	"modulefinder", "runpy", "code", "codeop", "tracemalloc",
	"asyncio", "threading", "multiprocessing", "concurrent",
)

// NormalizeSource converts Windows and bare-CR line endings to Unix form.
// Both the guard and the harness see the normalized text.
func NormalizeSource(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.ReplaceAll(source, "\r", "\n")
}

// CheckSource validates a submission before any execution happens.
func CheckSource(source string, maxLen int) error {
	if found := scanForbidden(source); len(found) > 0 {
		return pkgerrors.Newf(pkgerrors.ForbiddenImport,
			"Forbidden imports detected: %s", strings.Join(found, ", "))
	}
	if len(source) > maxLen {
		return pkgerrors.New(pkgerrors.SourceTooLarge).
			WithMessage(fmt.Sprintf("Code exceeds maximum allowed length (%dKB)", maxLen/1000))
	}
	return nil
}

func scanForbidden(source string) []string {
	var found []string
	forbiddenModules.Each(func(module string) bool {
		if strings.Contains(source, "import "+module) ||
			strings.Contains(source, "from "+module) {
			found = append(found, module)
		}
		return false
	})
	sort.Strings(found)
	return found
}
