// Package markup turns WordprocessingML part text into a flat token stream and back.
//
// DOCX parts are XML documents whose visible text is split by the word processor
// into runs at arbitrary points, so a template marker such as {{name}} may arrive
// as "{{na", "me", "}}" in three adjacent text nodes. The tokenizer reassembles
// those fragments with a small state machine (see Accumulator) and classifies every
// text token as plain text, a placeholder or a block helper placeholder.
//
// # Structure Organization
//
//   - token.go: Token, Name and Attr value types plus element builders
//   - namespaces.go: namespace URIs and relationship type constants
//   - patterns.go: precompiled marker grammars and marker counting
//   - accumulator.go: the fragment accumulation state machine
//   - tokenizer.go: byte stream to token stream
//   - placeholder.go: classification and helper placeholder parsing
//   - area.go: enclosing paragraph resolution
//   - geometry.go: page size and margins from section properties
//   - serialize.go: token stream back to bytes
//
// # Token Model
//
// Tokens are plain values. Structural tokens carry the prefix exactly as written
// in the source together with the resolved namespace URI, so the serializer can
// reproduce the original element names without rewriting namespace declarations.
//
// Example:
//
//	tokens, err := markup.Tokenize(documentXML)
//	if err != nil {
//	    return err
//	}
//	areas, err := markup.FindAreas(tokens)
//	if err != nil {
//	    return err
//	}
//	out, err := markup.Serialize(tokens)
package markup
