package domain

type ReleaseNote struct {
	Version string   `json:"version"`
	Changes []string `json:"changes"`
}
