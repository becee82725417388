package castaway

// Castaway is one contestant in a season's cast.
type Castaway struct {
	ID     string
	Name   string
	Season int
	Tribe  string
}
