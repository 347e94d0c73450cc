// Package plugins hosts plugin implementation subpackages. It contains no
// runtime code; the architecture guard that keeps plugins off pkg/domain
// lives alongside it.
package plugins
