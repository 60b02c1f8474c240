package engines

// Engine describes one remote conversion engine and the format pairs it
// can handle. The conversion service itself makes the final call for
// "auto"; this registry only rejects requests that can never succeed.
type Engine struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Pairs       []Pair `yaml:"pairs"`
}

// Pair is one supported source→target format pair.
type Pair struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type engineFile struct {
	Engines []Engine `yaml:"engines"`
}
