package model

// EngineVersion is the memento engine version, reported by `memento --version`.
const EngineVersion = "0.1.0"
