package knowledge

type EmergencyContact struct {
	Name        string `json:"name" yaml:"name"`
	Number      string `json:"number" yaml:"number"`
	Description string `json:"description" yaml:"description"`
}

// SuggestedQuestions returns the starter questions shown to chat users.
func SuggestedQuestions() []string {
	return []string{
		"How to file an FIR?",
		"What is Section 498A?",
		"Bail procedure in India",
		"Consumer court process",
		"Property dispute resolution",
		"Cybercrime reporting",
		"Divorce procedure",
		"Child custody laws",
		"Labour dispute resolution",
		"Legal aid services",
	}
}

func EmergencyContacts() []EmergencyContact {
	return []EmergencyContact{
		{Name: "Police Emergency", Number: "100", Description: "For immediate police assistance"},
		{Name: "Women Helpline", Number: "1091", Description: "For women in distress"},
		{Name: "Child Helpline", Number: "1098", Description: "For child-related emergencies"},
		{Name: "Cyber Crime Helpline", Number: "155260", Description: "For cybercrime reporting"},
		{Name: "Legal Aid", Number: "15100", Description: "For free legal aid services"},
	}
}
