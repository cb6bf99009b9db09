package webgraph

// Version is the library version, kept in sync with release tags.
const Version = "0.3.0"
