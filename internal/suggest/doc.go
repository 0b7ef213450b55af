// Package suggest turns text and style-guide rules into suggestion findings.
//
// The pipeline has three steps:
//
//  1. MarkSentences prefixes each sentence with an ordinal marker and records
//     where every sentence starts in the unmarked text.
//  2. BuildPrompt composes one prompt per rule, each carrying the whole style
//     guide, the marked writing and the rule being checked.
//  3. ParseReply reads the model's reply back into sentence ranges, which
//     Resolve maps onto rune offsets of the original text.
//
// Requester runs the three steps for every rule concurrently.
package suggest
