// Package skill holds the closed skill vocabulary shared by profiles and
// job requirements. Tags are matched case- and whitespace-insensitively and
// always stored in their canonical spelling.
package skill

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID        uuid.UUID
	Name      string
	Category  string
	CreatedAt time.Time
}

type Category struct {
	Name   string
	Skills []string
}

var categories = []Category{
	{Name: "Programming Languages", Skills: []string{
		"JavaScript", "TypeScript", "Python", "Java", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Go", "Rust",
	}},
	{Name: "Frontend Development", Skills: []string{
		"React", "Vue.js", "Angular", "Next.js", "Nuxt.js", "HTML", "CSS", "Sass/SCSS", "Tailwind CSS",
		"Material UI", "Bootstrap", "Redux", "GraphQL", "WebGL", "Three.js",
	}},
	{Name: "Backend Development", Skills: []string{
		"Node.js", "Express.js", "Django", "Flask", "Spring Boot", "Laravel", "Ruby on Rails", "ASP.NET",
		"FastAPI", "NestJS", "Microservices", "REST API", "WebSocket", "gRPC",
	}},
	{Name: "Database", Skills: []string{
		"MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Oracle", "SQL Server", "Firebase", "Supabase",
		"DynamoDB", "Cassandra", "Neo4j", "Elasticsearch",
	}},
	{Name: "DevOps & Cloud", Skills: []string{
		"Docker", "Kubernetes", "AWS", "Azure", "Google Cloud", "CI/CD", "Jenkins", "Git", "Linux", "Nginx",
		"Terraform", "Ansible", "Prometheus", "Grafana",
	}},
	{Name: "Mobile Development", Skills: []string{
		"React Native", "Flutter", "iOS Development", "Android Development", "Xamarin", "Ionic", "SwiftUI",
		"Kotlin Multiplatform", "Mobile UI/UX", "App Store Optimization",
	}},
	{Name: "AI & Machine Learning", Skills: []string{
		"TensorFlow", "PyTorch", "Scikit-learn", "Computer Vision", "NLP", "Deep Learning", "Machine Learning",
		"Data Mining", "Neural Networks", "Reinforcement Learning", "OpenAI API", "LangChain",
	}},
	{Name: "Data Science & Analytics", Skills: []string{
		"Python", "R", "SQL", "Data Analysis", "Data Visualization", "Statistical Analysis", "Power BI",
		"Tableau", "Excel", "Big Data", "Data Modeling", "A/B Testing", "Data Pipeline",
	}},
	{Name: "Design & Creative", Skills: []string{
		"UI Design", "UX Design", "Graphic Design", "Adobe Creative Suite", "Figma", "Sketch", "Motion Design",
		"Video Editing", "Photography", "Illustration", "3D Modeling", "Animation",
	}},
	{Name: "Digital Marketing", Skills: []string{
		"SEO", "SEM", "Social Media Marketing", "Content Marketing", "Email Marketing", "Google Analytics",
		"Google Ads", "Facebook Ads", "Marketing Analytics", "Marketing Automation", "CRM", "Copywriting",
	}},
	{Name: "Project Management", Skills: []string{
		"Agile", "Scrum", "Kanban", "JIRA", "Trello", "Project Planning", "Risk Management", "Budgeting",
		"Team Leadership", "Stakeholder Management", "Quality Assurance", "Resource Management",
	}},
	{Name: "Business & Finance", Skills: []string{
		"Financial Analysis", "Business Strategy", "Market Research", "Business Development", "Sales",
		"Accounting", "Investment", "Risk Analysis", "Business Intelligence", "Entrepreneurship",
		"Negotiation", "Business Planning",
	}},
	{Name: "Soft Skills", Skills: []string{
		"Communication", "Teamwork", "Problem Solving", "Time Management", "Leadership", "Critical Thinking",
		"Adaptability", "Creativity", "Emotional Intelligence", "Conflict Resolution", "Decision Making",
		"Public Speaking",
	}},
	{Name: "Languages", Skills: []string{
		"English", "Vietnamese", "Japanese", "Chinese", "Korean", "French", "German", "Spanish", "Russian", "Hindi",
	}},
}

type entry struct {
	name     string
	category string
}

var (
	index = buildIndex()
	all   = buildAll()
)

func buildIndex() map[string]entry {
	m := make(map[string]entry)
	for _, c := range categories {
		for _, s := range c.Skills {
			k := foldKey(s)
			// first category wins for tags listed twice (Python)
			if _, ok := m[k]; ok {
				continue
			}
			m[k] = entry{name: s, category: c.Name}
		}
	}
	return m
}

func buildAll() []Skill {
	seen := make(map[string]struct{})
	out := make([]Skill, 0, len(index))
	for _, c := range categories {
		for _, s := range c.Skills {
			k := foldKey(s)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, Skill{Name: s, Category: c.Name})
		}
	}
	return out
}

func foldKey(tag string) string {
	return strings.ToLower(strings.Join(strings.Fields(tag), " "))
}

// Categories returns a copy of the vocabulary grouped by category.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, Category{Name: c.Name, Skills: append([]string(nil), c.Skills...)})
	}
	return out
}

// All returns every distinct vocabulary entry with its primary category.
func All() []Skill {
	return append([]Skill(nil), all...)
}

// Canonical maps a free-form tag to its vocabulary spelling.
func Canonical(tag string) (string, bool) {
	k := foldKey(tag)
	if k == "" {
		return "", false
	}
	e, ok := index[k]
	if !ok {
		return "", false
	}
	return e.name, true
}

func CategoryOf(tag string) (string, bool) {
	e, ok := index[foldKey(tag)]
	if !ok {
		return "", false
	}
	return e.category, true
}

// NormalizeSet canonicalizes tags, dropping duplicates while keeping the
// first-seen order. Tags outside the vocabulary are returned separately.
func NormalizeSet(tags []string) (known []string, unknown []string) {
	seen := make(map[string]struct{}, len(tags))
	known = make([]string, 0, len(tags))
	for _, t := range tags {
		c, ok := Canonical(t)
		if !ok {
			unknown = append(unknown, t)
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		known = append(known, c)
	}
	return known, unknown
}

// Set is an order-insensitive view over canonical tags.
type Set map[string]struct{}

// NewSet builds a Set from tags, silently ignoring anything outside the
// vocabulary.
func NewSet(tags []string) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		if c, ok := Canonical(t); ok {
			s[c] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(canonical string) bool {
	_, ok := s[canonical]
	return ok
}
