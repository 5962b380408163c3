package models

// DataEntry is a single key-value pair. Keys are global, not per user.
type DataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
