package errors

import "regexp"

// messagePatterns recognise platform error texts that carry no usable error
// kind. Order matters: the first match wins.
//
// Covered variants: Go/POSIX strerror texts, Windows system messages,
// "(os error N)" suffixes produced by Rust-based runtimes and go-billy memfs
// messages built with fmt.Errorf.
var messagePatterns = []struct {
	code ErrorCode
	re   *regexp.Regexp
}{
	{
		code: CodeNotFound,
		re: regexp.MustCompile(`(?i)no such file or directory|does not exist|` +
			`cannot find the (file|path) specified|\(os error 2\)|\(os error 3\)`),
	},
	{
		code: CodeNotEmpty,
		re: regexp.MustCompile(`(?i)directory not empty|directory is not empty|` +
			`contains files|\(os error (39|66|145)\)`),
	},
	{
		code: CodeNotDirectory,
		re:   regexp.MustCompile(`(?i)not a directory|directory name is invalid|\(os error 20\)|\(os error 267\)`),
	},
	{
		code: CodeIsDirectory,
		re:   regexp.MustCompile(`(?i)is a directory|\(os error 21\)`),
	},
	{
		code: CodeAlreadyExists,
		re: regexp.MustCompile(`(?i)file exists|already exists|` +
			`cannot create a file when that file already exists|\(os error (17|80|183)\)`),
	},
}

func matchMessage(msg string) (ErrorCode, bool) {
	for _, p := range messagePatterns {
		if p.re.MatchString(msg) {
			return p.code, true
		}
	}
	return "", false
}
