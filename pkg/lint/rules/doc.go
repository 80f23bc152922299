// Package rules provides the built-in lint rules for herblint.
//
// # Rule Domains
//
//   - HTML structure:
//
//   - html-tag-name-lowercase: Tag names should be lowercase
//
//   - html-no-duplicate-attributes: An attribute may be set once per tag,
//     with ERB conditionals and loops taken into account
//
//   - html-require-closing-tags: Elements should not rely on implicit closing
//
//   - html-img-require-alt: Images need an alt attribute
//
//   - html-attribute-double-quotes: Attribute values should use double quotes
//
//   - html-no-self-closing: HTML elements should not use the XML "/>" form
//
//   - ERB tags and layout:
//
//   - erb-no-empty-tags: ERB tags need content
//
//   - erb-require-whitespace-inside-tags: ERB code is padded with whitespace
//
//   - erb-no-trailing-whitespace: Lines should not end with spaces or tabs
//
//   - erb-no-consecutive-comments: Runs of single-line ERB comments should be merged
//
//   - erb-requires-trailing-newline: Templates end with a newline
//
//   - erb-strict-locals-required: Partials declare their locals
//
//   - Directives:
//
//   - herb-disable-comment-valid-rule-name: herb:disable names known rules
//
//   - herb-disable-comment-no-duplicate-rules: herb:disable names each rule once
//
// Rules register themselves with lint.DefaultRegistry when the package is
// imported, in the order above. That order is the order of offenses.
package rules
