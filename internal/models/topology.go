package models

type Topology struct {
	ISDs  []ISD  `json:"isds"`
	ASes  []AS   `json:"ases"`
	Links []Link `json:"links"`
}

type ISD struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type AS struct {
	ID   string `json:"id"`
	ISD  int    `json:"isd"`
	Type string `json:"type"`
	IP   string `json:"ip"`
}

type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// DefaultTopology describes the two-ISD, four-AS test network brought up
// by the project's docker compose file.
func DefaultTopology() Topology {
	return Topology{
		ISDs: []ISD{
			{ID: 1, Name: "Academic Network"},
			{ID: 2, Name: "Commercial Network"},
		},
		ASes: []AS{
			{ID: "1-ff00:0:110", ISD: 1, Type: "core", IP: "172.20.0.10"},
			{ID: "1-ff00:0:111", ISD: 1, Type: "leaf", IP: "172.20.0.20"},
			{ID: "2-ff00:0:210", ISD: 2, Type: "core", IP: "172.20.0.30"},
			{ID: "2-ff00:0:211", ISD: 2, Type: "leaf", IP: "172.20.0.40"},
		},
		Links: []Link{
			{From: "1-ff00:0:110", To: "2-ff00:0:210", Type: "CORE"},
			{From: "1-ff00:0:110", To: "1-ff00:0:111", Type: "CHILD"},
			{From: "2-ff00:0:210", To: "2-ff00:0:211", Type: "CHILD"},
			{From: "1-ff00:0:111", To: "2-ff00:0:211", Type: "PEER"},
		},
	}
}
