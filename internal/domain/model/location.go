package model

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type State struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"country_id"`
	Code      string `json:"code"`
}

type City struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StateID int64  `json:"state_id"`
}

// Locations 國家/州/城市三層資料
type Locations struct {
	Countries []Country `json:"countries"`
	States    []State   `json:"states"`
	Cities    []City    `json:"cities"`
}
