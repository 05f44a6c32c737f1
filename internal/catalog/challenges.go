package catalog

// builtinChallenges is the stock puzzle set. Order matters: List exposes it
// as-is to clients.
var builtinChallenges = []Challenge{
	{
		ID:                "palindrome",
		Name:              "The Palindrome",
		Description:       "Check if a string is a palindrome (reads same forwards and backwards).",
		Difficulty:        "easy",
		TimeLimit:         120,
		FunctionName:      "is_palindrome",
		FunctionSignature: "def is_palindrome(s: str) -> bool:",
		ExampleCode:       "# Remove spaces and convert to lowercase\n# Compare with its reverse",
		TestCases: []TestCase{
			{Args: []any{"radar"}, Expected: true, Description: "Classic palindrome"},
			{Args: []any{"hello"}, Expected: false, Description: "Non-palindrome"},
			{Args: []any{"A man a plan a canal Panama"}, Expected: true, Description: "Palindrome with spaces and mixed case"},
			{Args: []any{""}, Expected: true, Description: "Empty string edge case"},
			{Args: []any{"a"}, Expected: true, Description: "Single character"},
		},
	},
	{
		ID:                "fizzbuzz",
		Name:              "FizzBuzz Lite",
		Description:       "For numbers 1 to n, print 'Fizz' for multiples of 3, 'Buzz' for multiples of 5, 'FizzBuzz' for both.",
		Difficulty:        "easy",
		TimeLimit:         120,
		FunctionName:      "fizzbuzz",
		FunctionSignature: "def fizzbuzz(n: int) -> str:",
		ExampleCode:       "# Loop from 1 to n\n# Check divisibility conditions",
		TestCases: []TestCase{
			{Args: []any{15}, Expected: "123Fizz4BuzzFizz78FizzBuzz11Fizz1314FizzBuzz", Description: "FizzBuzz sequence 1-15"},
			{Args: []any{5}, Expected: "12Fizz4Buzz", Description: "FizzBuzz sequence 1-5"},
			{Args: []any{1}, Expected: "1", Description: "Single number"},
		},
	},
	{
		ID:                "sum_evens",
		Name:              "Sum of Evens",
		Description:       "Return the sum of all even numbers in a list.",
		Difficulty:        "easy",
		TimeLimit:         120,
		FunctionName:      "sum_evens",
		FunctionSignature: "def sum_evens(numbers: list) -> int:",
		ExampleCode:       "# Use list comprehension or filter\n# Sum the resulting list",
		TestCases: []TestCase{
			{Args: []any{[]any{1, 2, 3, 4}}, Expected: 6, Description: "Mixed list"},
			{Args: []any{[]any{2, 4, 6, 8}}, Expected: 20, Description: "All even numbers"},
			{Args: []any{[]any{1, 3, 5}}, Expected: 0, Description: "No even numbers"},
			{Args: []any{[]any{}}, Expected: 0, Description: "Empty list"},
			{Args: []any{[]any{-2, -1, 0, 1, 2}}, Expected: 0, Description: "Negative and zero"},
		},
	},
	{
		ID:                "anagram_check",
		Name:              "Anagram Check",
		Description:       "Check if two strings are anagrams (contain same characters in different order).",
		Difficulty:        "easy",
		TimeLimit:         120,
		FunctionName:      "is_anagram",
		FunctionSignature: "def is_anagram(s1: str, s2: str) -> bool:",
		ExampleCode:       "# Sort characters in both strings\n# Compare sorted versions",
		TestCases: []TestCase{
			{Args: []any{"listen", "silent"}, Expected: true, Description: "Classic anagram"},
			{Args: []any{"hello", "world"}, Expected: false, Description: "Non-anagram"},
			{Args: []any{"a", "a"}, Expected: true, Description: "Single character match"},
			{Args: []any{"", ""}, Expected: true, Description: "Empty strings"},
			{Args: []any{"ABC", "abc"}, Expected: true, Description: "Case-insensitive anagram"},
		},
	},
	{
		ID:                "capitalize",
		Name:              "Capitalize Words",
		Description:       "Capitalize the first letter of each word in a string.",
		Difficulty:        "easy",
		TimeLimit:         120,
		FunctionName:      "capitalize_words",
		FunctionSignature: "def capitalize_words(s: str) -> str:",
		ExampleCode:       "# Split by spaces\n# Capitalize each word\n# Join back together",
		TestCases: []TestCase{
			{Args: []any{"hello world"}, Expected: "Hello World", Description: "Basic capitalization"},
			{Args: []any{"python duel challenge"}, Expected: "Python Duel Challenge", Description: "Multiple words"},
			{Args: []any{"a"}, Expected: "A", Description: "Single character"},
			{Args: []any{""}, Expected: "", Description: "Empty string"},
			{Args: []any{"already Capitalized"}, Expected: "Already Capitalized", Description: "Mixed capitalization"},
		},
	},
	{
		ID:                "is_prime",
		Name:              "Prime Number Checker",
		Description:       "Determine if a number is prime (only divisible by 1 and itself).",
		Difficulty:        "medium",
		TimeLimit:         120,
		FunctionName:      "is_prime",
		FunctionSignature: "def is_prime(n: int) -> bool:",
		ExampleCode:       "# Check if n < 2\n# Check divisibility up to sqrt(n)",
		TestCases: []TestCase{
			{Args: []any{2}, Expected: true, Description: "Smallest prime"},
			{Args: []any{17}, Expected: true, Description: "Odd prime"},
			{Args: []any{4}, Expected: false, Description: "Even non-prime"},
			{Args: []any{1}, Expected: false, Description: "One is not prime"},
			{Args: []any{97}, Expected: true, Description: "Larger prime"},
		},
	},
	{
		ID:                "first_non_repeat",
		Name:              "First Non-Repeating Character",
		Description:       "Return the first character that does not repeat in a string.",
		Difficulty:        "medium",
		TimeLimit:         120,
		FunctionName:      "first_non_repeating_char",
		FunctionSignature: "def first_non_repeating_char(s: str) -> str:",
		ExampleCode:       "# Count character frequencies\n# Find first non-repeating",
		TestCases: []TestCase{
			{Args: []any{"leetcode"}, Expected: "l", Description: "Standard case"},
			{Args: []any{"loveleetcode"}, Expected: "v", Description: "Longer string"},
			{Args: []any{"aabb"}, Expected: "", Description: "No non-repeating chars"},
			{Args: []any{"a"}, Expected: "a", Description: "Single character"},
			{Args: []any{"abab"}, Expected: "", Description: "All chars repeat"},
		},
	},
}
