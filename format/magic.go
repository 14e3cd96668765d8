// Package format defines the fixed magic strings, version string, and
// sub-block column tags shared by the section and container packages.
//
// Nothing in this package is configurable at runtime: the container format
// has exactly one magic, one version string per build, and exactly three
// sub-block column tags. That is deliberate — spec.md §9 Open Question (b)
// requires the version comparison to be byte-for-byte exact, never
// tolerant, so there is no parsing flexibility to express here.
package format

// FileMagic is the 5-byte ASCII prefix at the start of every container file.
const FileMagic = "tsc--"

// Version is this build's exact 5-character version string. The container
// reader compares the on-disk version field against this constant
// byte-for-byte; any mismatch is a fatal ErrVersionMismatch, never a
// tolerant "compatible enough" check (spec.md §9 Open Question (b)).
const Version = "01.00"

// SubBlockMagicSize is the fixed width, in bytes, of a sub-block's magic
// tag on disk.
const SubBlockMagicSize = 8

// Sub-block magic prefixes. On disk each is NUL-padded out to
// SubBlockMagicSize bytes (spec.md §3: "zero-padded to 8 bytes, last byte
// NUL"); use SubBlockMagic to build the padded array and
// MatchesSubBlockMagic to compare one read off disk.
const (
	AuxMagicPrefix  = "aux"
	NucMagicPrefix  = "nuc"
	QualMagicPrefix = "qual"
)

// SubBlockMagic returns the 8-byte, NUL-padded on-disk form of a sub-block
// magic prefix. It panics if prefix leaves no room for a trailing NUL
// (len(prefix) >= SubBlockMagicSize), which would indicate a programming
// error, not a runtime condition.
func SubBlockMagic(prefix string) [SubBlockMagicSize]byte {
	if len(prefix) >= SubBlockMagicSize {
		panic("format: sub-block magic prefix too long: " + prefix)
	}

	var m [SubBlockMagicSize]byte
	copy(m[:], prefix)

	return m
}

// MatchesSubBlockMagic reports whether the 8-byte magic read from disk
// matches the given prefix (with the remainder expected to be NUL).
func MatchesSubBlockMagic(got [SubBlockMagicSize]byte, prefix string) bool {
	return got == SubBlockMagic(prefix)
}
