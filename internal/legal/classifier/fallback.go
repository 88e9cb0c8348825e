package classifier

import "strings"

// DefaultResponse answers queries that match no entry and no fallback topic.
const DefaultResponse = "I understand your legal query. For specific legal advice tailored to your situation, I recommend consulting with a qualified lawyer. You can use this portal to file an FIR, track your cases, or get basic legal information. How else can I assist you with your legal matters?"

type topic struct {
	markers  []string
	response string
}

// topics are checked in order; the first topic with any marker present wins.
var topics = []topic{
	{
		markers:  []string{"court", "hearing"},
		response: "For court-related matters, ensure you have all necessary documents and arrive on time. If you need to track your case status, you can use the case tracking feature. For specific procedural questions, consult your lawyer or the court clerk.",
	},
	{
		markers:  []string{"police", "arrest"},
		response: "If you need to interact with police, remember your rights: right to remain silent, right to legal representation, and right to know the charges. For filing complaints, visit the nearest police station with all relevant evidence.",
	},
	{
		markers:  []string{"lawyer", "advocate"},
		response: "When choosing a lawyer, consider their expertise in your specific legal area, experience, fee structure, and communication style. You can find lawyers through bar associations, legal directories, or referrals.",
	},
	{
		markers:  []string{"document", "evidence"},
		response: "Always maintain proper documentation and evidence for your legal matters. Keep original documents safe, make multiple copies, and organize them chronologically. Digital evidence should be preserved in its original format.",
	},
}

var languageHints = map[string]string{
	LanguageHindi:   "[हिंदी में सहायता उपलब्ध है - कानूनी सलाह के लिए योग्य वकील से संपर्क करें]",
	LanguageMarathi: "[मराठी मध्ये मदत उपलब्ध आहे - कायदेशीर सल्ल्यासाठी पात्र वकीलाशी संपर्क साधा]",
}

func fallbackResponse(normalized string) string {
	for _, t := range topics {
		for _, m := range t.markers {
			if strings.Contains(normalized, m) {
				return t.response
			}
		}
	}
	return DefaultResponse
}

func fallbackActions() []string {
	return []string{"File FIR if criminal matter", "Consult a lawyer", "Gather evidence"}
}

// appendLanguageHint adds the bilingual assistance note for supported
// languages. Unknown language tags leave the response untouched.
func appendLanguageHint(response, language string, confidence float64) string {
	hint, ok := languageHints[language]
	if !ok || confidence <= hintThreshold {
		return response
	}
	return response + "\n\n" + hint
}

// SupportsHint reports whether language has a bilingual hint.
func SupportsHint(language string) bool {
	_, ok := languageHints[language]
	return ok
}
