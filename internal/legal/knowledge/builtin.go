package knowledge

// builtinEntries is the portal's legal knowledge table in match-priority order.
var builtinEntries = []Entry{
	{
		ID:               "section_498a",
		Keywords:         []string{"498a", "498-a", "domestic violence", "dowry", "cruelty", "husband", "in-laws"},
		Response:         "Section 498A of the Indian Penal Code deals with cruelty by husband or his relatives towards a married woman. It is a cognizable and non-bailable offense punishable with imprisonment up to 3 years and fine. The offense covers both physical and mental cruelty including dowry harassment.",
		BaseConfidence:   0.95,
		SuggestedActions: []string{"File FIR", "Contact women helpline", "Gather evidence"},
		RelatedSections:  []string{"Section 304B (Dowry Death)", "Section 406 (Criminal Breach of Trust)"},
	},
	{
		ID:               "fir_filing",
		Keywords:         []string{"file fir", "register fir", "police station", "complaint", "report crime"},
		Response:         "To file an FIR (First Information Report): 1) Visit the nearest police station, 2) Provide complete incident details in writing, 3) Ensure the FIR copy is given to you with the FIR number, 4) Keep the acknowledgment safely. Police cannot refuse to register FIR for cognizable offenses.",
		BaseConfidence:   0.9,
		SuggestedActions: []string{"Visit police station", "Gather evidence", "Prepare incident details"},
		RelatedSections:  []string{"Section 154 CrPC (Information in cognizable cases)"},
	},
	{
		ID:               "bail_procedure",
		Keywords:         []string{"bail", "anticipatory bail", "regular bail", "surety", "custody"},
		Response:         "Bail can be of three types: 1) Regular Bail - Apply to Sessions Court/High Court for non-bailable offenses, 2) Anticipatory Bail - Apply before arrest under Section 438 CrPC, 3) Interim Bail - Temporary relief. Required documents include bail application, surety arrangement, and affidavit of surety.",
		BaseConfidence:   0.85,
		SuggestedActions: []string{"Consult lawyer", "Arrange surety", "Prepare documents"},
		RelatedSections:  []string{"Section 437 CrPC (Bail)", "Section 438 CrPC (Anticipatory Bail)"},
	},
	{
		ID:               "consumer_court",
		Keywords:         []string{"consumer court", "consumer dispute", "defective product", "service deficiency"},
		Response:         "Consumer disputes are handled by three-tier system: 1) District Consumer Court (up to ₹20 lakhs), 2) State Consumer Court (₹20 lakhs to ₹1 crore), 3) National Consumer Court (above ₹1 crore). File complaint within 2 years of cause of action. Required documents include purchase receipt, warranty card, and evidence of deficiency.",
		BaseConfidence:   0.8,
		SuggestedActions: []string{"Gather purchase documents", "Document the deficiency", "File complaint online"},
		RelatedSections:  []string{"Consumer Protection Act 2019"},
	},
	{
		ID:               "property_dispute",
		Keywords:         []string{"property dispute", "land dispute", "title", "possession", "ownership"},
		Response:         "Property disputes are primarily civil matters handled by civil courts. File a suit for declaration, possession, or partition in the court of appropriate jurisdiction. Required documents include sale deed, title documents, survey records, and possession certificate. Consider mediation before litigation.",
		BaseConfidence:   0.75,
		SuggestedActions: []string{"Verify title documents", "Consult civil lawyer", "Consider mediation"},
		RelatedSections:  []string{"Transfer of Property Act 1882", "Registration Act 1908"},
	},
	{
		ID:               "cybercrime",
		Keywords:         []string{"cybercrime", "online fraud", "digital fraud", "internet crime", "hacking"},
		Response:         "For cybercrime complaints: 1) File complaint at nearest cyber police station or online at cybercrime.gov.in, 2) Preserve all digital evidence (screenshots, emails, transactions), 3) Relevant sections include IT Act 66 (Computer related offenses), 66C (Identity theft), 66D (Cheating by personation) and IPC 419 (Cheating by personation), 420 (Cheating).",
		BaseConfidence:   0.9,
		SuggestedActions: []string{"File online complaint", "Preserve digital evidence", "Block fraudulent accounts"},
		RelatedSections:  []string{"IT Act Section 66", "IT Act Section 66C", "IPC Section 420"},
	},
	{
		ID:               "cheating_fraud",
		Keywords:         []string{"cheating", "fraud", "financial fraud", "scam", "money"},
		Response:         "IPC Section 420 deals with cheating and dishonestly inducing delivery of property. Punishment includes imprisonment up to 7 years and fine. For financial fraud, also consider Section 409 (Criminal breach of trust by public servant) and various sections under the Prevention of Money Laundering Act.",
		BaseConfidence:   0.85,
		SuggestedActions: []string{"File FIR immediately", "Gather transaction evidence", "Report to bank"},
		RelatedSections:  []string{"Section 420 (Cheating)", "Section 406 (Criminal breach of trust)"},
	},
	{
		ID:               "divorce",
		Keywords:         []string{"divorce", "separation", "marriage dissolution", "matrimonial"},
		Response:         "Divorce can be filed under various grounds: 1) Mutual consent divorce (Section 13B Hindu Marriage Act), 2) Contested divorce on grounds like cruelty, desertion, adultery. Required documents include marriage certificate, evidence of grounds, income proof. Consider counseling before legal proceedings.",
		BaseConfidence:   0.8,
		SuggestedActions: []string{"Attempt reconciliation", "Consult family lawyer", "Gather evidence"},
		RelatedSections:  []string{"Hindu Marriage Act 1955", "Special Marriage Act 1954"},
	},
	{
		ID:               "child_custody",
		Keywords:         []string{"child custody", "custody battle", "guardianship", "child welfare"},
		Response:         "Child custody is determined by the best interest of the child principle. Types include physical custody, legal custody, joint custody. Courts consider factors like child's age, preference (if above 9 years), parent's financial status, and living conditions. File petition under Guardians and Wards Act.",
		BaseConfidence:   0.75,
		SuggestedActions: []string{"Document child care", "Maintain stability", "Consider mediation"},
		RelatedSections:  []string{"Guardians and Wards Act 1890", "Hindu Minority and Guardianship Act 1956"},
	},
	{
		ID:               "labour_dispute",
		Keywords:         []string{"labour dispute", "employment issue", "wrongful termination", "salary issue"},
		Response:         "Labour disputes can be resolved through: 1) Internal grievance mechanism, 2) Labour Commissioner office, 3) Industrial Tribunal, 4) Labour Court. Common issues include wrongful termination, non-payment of wages, harassment. File complaint within prescribed time limits.",
		BaseConfidence:   0.7,
		SuggestedActions: []string{"Document workplace issues", "Approach labour commissioner", "Maintain records"},
		RelatedSections:  []string{"Industrial Disputes Act 1947", "Labour Laws"},
	},
}

// Default returns the built-in knowledge base. It panics if the built-in table
// is invalid, which the package tests rule out.
func Default() *Base {
	b, err := NewBase(builtinEntries)
	if err != nil {
		panic(err)
	}
	return b
}
