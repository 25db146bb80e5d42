package store

// DefaultWhatWeDo seeds the "what we do" section when the site config is
// created lazily or its whatWeDo list comes back empty.
func DefaultWhatWeDo() []WhatWeDoItem {
	return []WhatWeDoItem{
		{
			Title:       "Design and Engineering",
			Description: "Include any necessary calculations, selections, and schematic designs. Mention the creation of blueprints or digital models if applicable.",
			Icon:        "PenTool",
		},
		{
			Title:       "Procurement",
			Description: "Describe the process for acquiring HVAC units and components, including timelines and supplier details.",
			Icon:        "ShoppingCart",
		},
		{
			Title:       "Installation",
			Description: "Outline the steps for installing the equipment, from site preparation to testing and commissioning.",
			Icon:        "Wrench",
		},
		{
			Title:       "Commissioning and Testing",
			Description: "Specify procedures for ensuring that installed systems meet design specifications and operational requirements.",
			Icon:        "ClipboardCheck",
		},
		{
			Title:       "Annual Maintenance Contracts",
			Description: "This includes tasks like cleaning, inspecting, and replacing parts to keep your system running efficiently. AMCs help prevent breakdowns, extend the lifespan of your equipment, and potentially lower energy costs.",
			Icon:        "CalendarCheck",
		},
	}
}

// DefaultSiteConfig is the content a fresh deployment starts with.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Hero: HeroBlock{
			Name:    "FOG SEASON HVAC",
			Title:   "Heating | Ventilation | Air Conditioning",
			Tagline: "Your Comfort, Our Priority - All Seasons Round",
			CTA: []CTA{
				{Label: "Our Projects", Link: "#projects", Primary: true},
				{Label: "Contact Us", Link: "#contact", Primary: false},
			},
			Socials: []Social{
				{Platform: "LinkedIn", URL: "https://linkedin.com", Icon: "Linkedin"},
				{Platform: "Twitter", URL: "https://twitter.com", Icon: "Twitter"},
				{Platform: "Facebook", URL: "https://facebook.com", Icon: "Globe"},
			},
		},
		About: AboutBlock{
			Bio: "We are Fog Season HVAC, a premier contracting company dedicated to delivering state-of-the-art Heating, Ventilation, and Air Conditioning solutions. With over a decade of excellence, we specialize in large-scale commercial, residential, and industrial projects, ensuring efficiency, comfort, and sustainability in every build.",
			Skills: []Skill{
				{Name: "HVAC Systems", Level: 95},
				{Name: "Electrical Power", Level: 90},
				{Name: "Plumbing & Drainage", Level: 92},
				{Name: "Fire Protection", Level: 98},
			},
			Image:             "https://images.unsplash.com/photo-1581094794329-cd282c0f4448?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&q=80",
			ExperienceYears:   15,
			ProjectsCompleted: 200,
		},
		WhatWeDo: DefaultWhatWeDo(),
		Contact: ContactBlock{
			Email:        "info@fogseasonhvac.com",
			Phone:        "+91 78688 06841",
			HeadOffice:   "#27, Sanjeevappa Layout, Thilgara beedi, varthur near Marathahalli, Bangalore - 560087",
			BranchOffice: "No- 21/77, Kamaraj nagar, Madhuraboyal, Chennai - 600095",
			Socials: []Social{
				{Platform: "LinkedIn", URL: "https://linkedin.com"},
				{Platform: "Twitter", URL: "https://twitter.com"},
			},
		},
	}
}
