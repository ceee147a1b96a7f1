// Package token provides the low-level text machinery shared by the
// scanner, the encoder and the path parser: source documents with
// positioned errors, string quoting, number and identifier matching.
package token
