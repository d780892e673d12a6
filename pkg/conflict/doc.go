// Package conflict classifies cross-version type conflicts on merged fields
// and defines the read/write policy for each conflict kind.
//
// The set of conflict kinds is closed (schema.ConflictType) and every kind
// maps to exactly one Policy entry, so emission code can switch exhaustively
// and a new kind cannot ship without a policy. Classification is
// deterministic from the per-version type set alone.
//
// Write validation for numeric conflicts is range-checked: a value is
// accepted only if it falls inside the intersection of the representable
// bounds of every narrower type among the targeted versions. Non-finite
// floating-point values bypass range checks unconditionally.
package conflict
