// Package highlight maps an analyzer's word-level attribution back onto the
// original commit text.
//
// It runs in two stages:
//
//   - Matcher compiles the attributed words into one case-insensitive
//     alternation (each word quoted, longest first) and splits text into
//     attributed and plain chunks. The split is lossless.
//   - Classify resolves each attributed chunk through the attribution's
//     Lookup and keeps the polarity only for distinct matches, i.e. matches
//     not embedded in a longer token ("no" inside "node").
//
// Engine composes both stages and can reuse compiled patterns through an
// injected PatternCache. Everything here is pure and safe for concurrent use.
package highlight
