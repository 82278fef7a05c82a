// Package filter implements the project grid's filter engine. A project is
// kept when it matches the text query, the tag selection, the blockchain
// selection and the TVL range; the AND/OR mode only affects how selections
// combine within the tag and blockchain categories.
//
// [Apply] is the pure entry point. The [Filter] interface and [Chain] type
// give the same predicates a composable form that also records why each
// project was excluded, see [Explain].
package filter
