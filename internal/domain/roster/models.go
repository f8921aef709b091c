package roster

type Candidate struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

const (
	ReasonName  = "name"
	ReasonEmail = "email"
)

type Match struct {
	Reason string `json:"reason"`
	Value  string `json:"value"`
}

// Cluster is one group of records that refer to the same person.
type Cluster struct {
	IDs     []string `json:"ids"`
	Matches []Match  `json:"matches"`
}
