package itemschema

// Package itemschema validates item definition files against the item schema
// and the controlled vocabularies of the master list.
//
// - Checks return Result values (pass and fail messages plus validity) that
//   compose with Merge and Prefix; nothing is mutated in place.
// - Every message is an Issue carrying a JSON Pointer path, a code and the
//   source line of the node it is about.
// - Items not classified as "Materials" must also carry a Synthesis block,
//   whose material loops are checked for unique positions and distance
//   ordering between linked loops.
//
// Design policy:
// - Keep only the validation core in the root package; the document tree lives
//   in document/, vocabularies in vocab/, and I/O plus the CLI under internal/
//   and cmd/itemcheck.
// - A vocab.Sets value is read-only once built, so a Validator can be shared
//   across goroutines.
//
// Typical usage:
//
//  sets, err := vocab.Parse(listsYAML)
//  v := itemschema.NewValidator(sets)
//  res, err := v.Validate(itemYAML) // err is a *document.ParseError
//  for _, msg := range res.FailMessages() { ... }
//
