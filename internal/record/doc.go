// Package record defines the persisted prompt dataset domain model.
//
// PromptRecord is the core entity: normalized prompt text plus its
// classification into the fixed category, model, and output-type sets.
// The category and output-type vocabularies are closed; every persisted
// record must parse back into them. The model reference is a tagged
// alternative so "genuinely any platform" stays distinguishable from
// "classification never ran".
//
// Treat this package as the single source of truth for the closed sets;
// classification rules and query filters validate against it.
package record
