// Package hcl provides the HCL implementation of the config.Loader and
// config.Writer interfaces.
//
// A configuration is one .hcl file or a directory of them. Top-level
// attributes become settings, evaluated without variables or functions.
// Each `dataset "name" { ... }` block becomes a dataset definition.
package hcl
