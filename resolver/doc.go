// Package resolver maps classified label tokens to canonical knowledge-graph
// entities. Each token is routed to an entity family by its kind and pushed
// through an ordered chain of resolution strategies; the first strategy that
// finds an entity wins. A token that exhausts the chain is recorded as
// unmatched, which is a report outcome, not an error. Only a catalog failure
// aborts resolution.
//
// The strategy order is configurable. The documented default is direct,
// case-normalized, class-fallback, short-form.
package resolver
