package catalog

import "github.com/pathsentry/pathsentry/internal/operation"

var readShaped = []operation.Operation{operation.Read, operation.Glob, operation.Grep}

// Default builds the compiled-in baseline catalog from spec.md §4.2. It
// never fails: every baseline regex is a package-level literal that has
// already been exercised by the test suite, so a build error here would be
// a programming mistake, not an operational condition — callers can assert
// the error is nil.
func Default() (*Catalog, error) {
	entries := []Entry{
		{
			RegexSrc:    `(^|/)id_(rsa|dsa|ecdsa|ed25519|ecdsa_sk|ed25519_sk)$`,
			Level:       FileName,
			Verdict:     Deny,
			Description: "SSH private key",
		},
		{
			RegexSrc:    `(^|/)\.netrc$`,
			Level:       FileName,
			Verdict:     Deny,
			Description: "netrc credentials file",
		},
		{
			RegexSrc:    `\.env$`,
			Level:       FileExtension,
			Verdict:     Deny,
			Description: "dotenv file",
		},
		{
			RegexSrc:    `\.env\.[^/]+$`,
			Level:       FileExtension,
			Verdict:     Deny,
			Description: "dotenv variant file",
		},
		{
			RegexSrc:    `\.pub$`,
			Level:       FileExtension,
			Verdict:     Pass,
			Description: "public key material",
		},
		{
			RegexSrc:    `\.pem$`,
			Level:       FileExtension,
			Verdict:     Pass,
			Description: "PEM-encoded certificate/public material",
		},
		{
			RegexSrc:    `/\.?secrets?/`,
			Level:       SecurityDirectory,
			Verdict:     Deny,
			Description: "secrets directory",
		},
		{
			RegexSrc:            `credential`,
			Level:               SecurityDirectory,
			Verdict:             Deny,
			Description:         "path mentions credentials",
			SkipIfCodeExtension: true,
		},
		{
			RegexSrc:            `password`,
			Level:               SecurityDirectory,
			Verdict:             Deny,
			Description:         "path mentions password",
			SkipIfCodeExtension: true,
		},
		{
			RegexSrc:    `^~/\.ssh/`,
			Level:       DirGlob,
			Verdict:     Deny,
			Description: "~/.ssh directory",
		},
		{
			RegexSrc:    `^~/\.gnupg/`,
			Level:       DirGlob,
			Verdict:     Deny,
			Description: "~/.gnupg directory",
		},
		{
			RegexSrc:    `^~/\.aws/`,
			Level:       DirGlob,
			Verdict:     Deny,
			Description: "~/.aws directory",
		},
		{
			RegexSrc:    `^~/\.config/gcloud/`,
			Level:       DirGlob,
			Verdict:     Deny,
			Description: "~/.config/gcloud directory",
		},
		{
			RegexSrc:    `^~/\.azure/`,
			Level:       DirGlob,
			Verdict:     Deny,
			Description: "~/.azure directory",
		},
		{
			RegexSrc:    `^~/\.config/sops/`,
			Level:       DirGlob,
			Verdict:     Deny,
			Description: "~/.config/sops directory",
		},
		{
			RegexSrc:      `^~/dotfiles/`,
			Level:         TrustedDir,
			Verdict:       Pass,
			Description:   "trusted dotfiles directory",
			ApplicableOps: readShaped,
		},
		{
			RegexSrc:      `^~/codebases/`,
			Level:         TrustedDir,
			Verdict:       Pass,
			Description:   "trusted codebases directory",
			ApplicableOps: readShaped,
		},
	}
	return New(entries)
}
