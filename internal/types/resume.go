// Package types defines the shared domain types for the resume studio API.
package types

// ScoreObject is an ATS compatibility score with per-dimension sub-scores.
// Scores computed from raw uploaded text carry Issues; scores computed from
// structured resume data carry Improvements.
type ScoreObject struct {
	Overall             int      `json:"overall"`
	KeywordOptimization int      `json:"keywordOptimization"`
	Formatting          int      `json:"formatting"`
	Structure           int      `json:"structure"`
	Issues              []string `json:"issues,omitempty"`
	Improvements        []string `json:"improvements,omitempty"`
}

// PersonalInfo holds contact details extracted from a resume.
// Fields are empty strings when not found; the extraction model may report
// absent values as JSON null, which decodes to the zero value here.
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Title     string `json:"title,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio"`
}

// ExperienceEntry is one position in the experience section. Order is
// significant; most recent first is conventional but not enforced.
type ExperienceEntry struct {
	Company      string   `json:"company"`
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Achievements []string `json:"achievements"`
}

// EducationEntry is one entry in the education section.
type EducationEntry struct {
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	Field          string   `json:"field"`
	GraduationDate string   `json:"graduationDate"`
	GPA            string   `json:"gpa"`
	Achievements   []string `json:"achievements"`
}

// SkillSet groups skills by category. Categories are independent; no global
// deduplication is applied across them.
type SkillSet struct {
	Technical     []string `json:"technical"`
	Tools         []string `json:"tools"`
	Soft          []string `json:"soft"`
	Languages     []string `json:"languages"`
	Frameworks    []string `json:"frameworks,omitempty"`
	Databases     []string `json:"databases,omitempty"`
	Cloud         []string `json:"cloud,omitempty"`
	Methodologies []string `json:"methodologies,omitempty"`
}

// Project is one project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link"`
	Impact       string   `json:"impact"`
}

// Certification is one certification entry.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
}

// StructuredResume is the normalized resume schema produced by extraction
// and edited through the web form.
type StructuredResume struct {
	PersonalInfo   PersonalInfo      `json:"personalInfo"`
	Summary        string            `json:"summary"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         SkillSet          `json:"skills"`
	Projects       []Project         `json:"projects"`
	Certifications []Certification   `json:"certifications"`
}

// EmptyResume returns a fully-empty structured resume suitable for the blank
// editor: every list present but empty, every string field blank.
func EmptyResume() *StructuredResume {
	r := &StructuredResume{}
	r.Normalize()
	return r
}

// Normalize replaces nil slices with empty ones so the stored JSON never
// contains null where the editor expects a list.
func (r *StructuredResume) Normalize() {
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	for i := range r.Experience {
		if r.Experience[i].Achievements == nil {
			r.Experience[i].Achievements = []string{}
		}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	for i := range r.Education {
		if r.Education[i].Achievements == nil {
			r.Education[i].Achievements = []string{}
		}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	r.Skills.normalize()
}

func (s *SkillSet) normalize() {
	if s.Technical == nil {
		s.Technical = []string{}
	}
	if s.Tools == nil {
		s.Tools = []string{}
	}
	if s.Soft == nil {
		s.Soft = []string{}
	}
	if s.Languages == nil {
		s.Languages = []string{}
	}
}
