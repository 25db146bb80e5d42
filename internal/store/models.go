package store

import "time"

// CTA is a hero call-to-action button.
type CTA struct {
	Label   string `json:"label"`
	Link    string `json:"link"`
	Primary bool   `json:"primary"`
}

type Social struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type HeroBlock struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Tagline string   `json:"tagline"`
	CTA     []CTA    `json:"cta"`
	Socials []Social `json:"socials"`
}

type AboutBlock struct {
	Bio               string  `json:"bio"`
	Skills            []Skill `json:"skills"`
	Image             string  `json:"image"`
	ExperienceYears   int     `json:"experienceYears"`
	ProjectsCompleted int     `json:"projectsCompleted"`
}

type ContactBlock struct {
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	HeadOffice   string   `json:"headOffice"`
	BranchOffice string   `json:"branchOffice"`
	Socials      []Social `json:"socials"`
}

type WhatWeDoItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// SiteConfig is the singleton holding every non-collection section of the
// public site. At most one row exists; it is created lazily on first read.
type SiteConfig struct {
	Hero     HeroBlock      `json:"hero"`
	About    AboutBlock     `json:"about"`
	WhatWeDo []WhatWeDoItem `json:"whatWeDo"`
	Contact  ContactBlock   `json:"contact"`
}

// Project is one portfolio entry. Image always mirrors Images[0] after any
// write that supplies a non-empty Images list.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Images      []string  `json:"images"`
	Tags        []string  `json:"tags"`
	Github      string    `json:"github"`
	Demo        string    `json:"demo"`
	Category    string    `json:"category"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Service struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Experience struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Period      string    `json:"period"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GalleryItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminUser struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
