package models

// BusinessRealityModel captures what a local service business actually sells
// and where, plus the proof signals used to anchor EEAT-sensitive content.
// It is immutable for the duration of a planning run.
type BusinessRealityModel struct {
	Name            string   `yaml:"name"`
	Niche           string   `yaml:"niche"`
	CoreServices    []string `yaml:"core_services"`
	Locations       []string `yaml:"locations"`
	YearsActive     int      `yaml:"years_active"`
	ProofPoints     []string `yaml:"proof_points"`
	VolumeClaims    []string `yaml:"volume_claims"`
	ToneDescriptors []string `yaml:"tone_descriptors"`
	ReviewThemes    []string `yaml:"review_themes"`
	Guarantees      []string `yaml:"guarantees"`
}

// PrimaryLocation returns the first declared location, or "" when the
// business has not declared any.
func (b *BusinessRealityModel) PrimaryLocation() string {
	if len(b.Locations) == 0 {
		return ""
	}
	return b.Locations[0]
}
