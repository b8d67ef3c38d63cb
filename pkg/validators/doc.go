// Package validators provides reusable field validators and a registry that
// turns declarative validation rules into field.Validation descriptors.
//
// Apart from Required and MinSelectable, validators pass empty values (nil or
// an all-whitespace string) so optional fields only fail when filled in.
// Pair them with Required to make a field mandatory.
package validators
