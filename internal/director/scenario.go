package director

// Plan is the scene description handed to the host: everything it needs to
// create text objects, parent them and install opacity keyframes.
type Plan struct {
	Version    string     `yaml:"version" json:"version"`
	ID         string     `yaml:"id" json:"id"`
	Source     string     `yaml:"source,omitempty" json:"source,omitempty"`
	Collection string     `yaml:"collection" json:"collection"`
	FPS        int        `yaml:"fps" json:"fps"`
	Anchor     Transform  `yaml:"anchor" json:"anchor"`
	Material   Material   `yaml:"material" json:"material"`
	Lines      []PlanLine `yaml:"lines" json:"lines"`
}

// Vec3 is an (x, y, z) triple in host units or radians.
type Vec3 [3]float64

// Transform is a location and Euler rotation.
type Transform struct {
	Name     string `yaml:"name" json:"name"`
	Location Vec3   `yaml:"location,flow" json:"location"`
	Rotation Vec3   `yaml:"rotation,flow" json:"rotation"`
}

// Material describes the shared translucent shader group every segment reuses.
type Material struct {
	Group       string  `yaml:"group" json:"group"`
	Parameter   string  `yaml:"parameter" json:"parameter"`
	Min         float64 `yaml:"min" json:"min"`
	Max         float64 `yaml:"max" json:"max"`
	Default     float64 `yaml:"default" json:"default"`
	BlendMethod string  `yaml:"blend_method" json:"blend_method"`
}

// PlanLine is an empty parented to the anchor that groups a line's segments.
type PlanLine struct {
	Name     string        `yaml:"name" json:"name"`
	Index    int           `yaml:"index" json:"index"`
	Phase    *int          `yaml:"phase,omitempty" json:"phase,omitempty"`
	Segments []PlanSegment `yaml:"segments" json:"segments"`
}

// PlanSegment is one text object, located in its line's coordinate frame.
type PlanSegment struct {
	Name      string     `yaml:"name" json:"name"`
	Text      string     `yaml:"text" json:"text"`
	Size      float64    `yaml:"size" json:"size"`
	Location  Vec3       `yaml:"location,flow" json:"location"`
	Rotation  Vec3       `yaml:"rotation,flow" json:"rotation"`
	Width     float64    `yaml:"width" json:"width"`
	Keyframes []FrameKey `yaml:"keyframes" json:"keyframes"`
}
