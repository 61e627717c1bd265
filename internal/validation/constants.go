package validation

// TagNotBlank is the custom tag rejecting whitespace-only strings
const TagNotBlank = "notblank"
