package knowledge

// Built-in data set. Small by design: real deployments overlay a YAML file
// on top of these defaults (see watch.go).

func builtinInteractions() []InteractionRule {
	return []InteractionRule{
		{
			DrugA:       "warfarin",
			DrugB:       "aspirin",
			Severity:    SeverityMajor,
			Description: "Increased bleeding risk due to additive anticoagulant effects",
		},
		{
			DrugA:       "warfarin",
			DrugB:       "ibuprofen",
			Severity:    SeverityMajor,
			Description: "NSAIDs may increase bleeding risk and reduce anticoagulant effectiveness",
		},
		{
			DrugA:       "warfarin",
			DrugB:       "fluconazole",
			Severity:    SeverityMajor,
			Description: "CYP450 inhibition raises warfarin levels and INR",
		},
		{
			DrugA:       "simvastatin",
			DrugB:       "clarithromycin",
			Severity:    SeverityMajor,
			Description: "Increased statin levels may lead to muscle toxicity",
		},
		{
			DrugA:       "sertraline",
			DrugB:       "tramadol",
			Severity:    SeverityMajor,
			Description: "Risk of serotonin syndrome and CNS depression",
		},
		{
			DrugA:       "lisinopril",
			DrugB:       "ibuprofen",
			Severity:    SeverityModerate,
			Description: "NSAIDs may blunt the antihypertensive effect and worsen renal function",
		},
		{
			DrugA:       "lisinopril",
			DrugB:       "spironolactone",
			Severity:    SeverityModerate,
			Description: "Risk of hyperkalemia with ACE inhibitor plus potassium-sparing diuretic",
		},
		{
			DrugA:       "metformin",
			DrugB:       "furosemide",
			Severity:    SeverityModerate,
			Description: "Loop diuretics may raise metformin levels and blood glucose",
		},
		{
			DrugA:       "levothyroxine",
			DrugB:       "omeprazole",
			Severity:    SeverityMinor,
			Description: "Reduced levothyroxine absorption with acid suppression",
		},
		{
			DrugA:       "atorvastatin",
			DrugB:       "amlodipine",
			Severity:    SeverityMinor,
			Description: "Modest increase in statin exposure; usually clinically insignificant",
		},
	}
}

func builtinGuidelines() []DosageGuideline {
	return []DosageGuideline{
		{Drug: "lisinopril", MinDose: 2.5, MaxDose: 40, Unit: "mg", Frequency: "once daily"},
		{Drug: "metoprolol", MinDose: 25, MaxDose: 200, Unit: "mg", Frequency: "twice daily"},
		{Drug: "amlodipine", MinDose: 2.5, MaxDose: 10, Unit: "mg", Frequency: "once daily"},
		{Drug: "metformin", MinDose: 500, MaxDose: 1000, Unit: "mg", Frequency: "twice daily"},
		{Drug: "warfarin", MinDose: 1, MaxDose: 10, Unit: "mg", Frequency: "once daily"},
		{Drug: "aspirin", MinDose: 81, MaxDose: 325, Unit: "mg", Frequency: "once daily"},
		{Drug: "atorvastatin", MinDose: 10, MaxDose: 80, Unit: "mg", Frequency: "once daily"},
		{Drug: "simvastatin", MinDose: 5, MaxDose: 40, Unit: "mg", Frequency: "once daily"},
		{Drug: "sertraline", MinDose: 25, MaxDose: 200, Unit: "mg", Frequency: "once daily"},
		{Drug: "ibuprofen", MinDose: 200, MaxDose: 800, Unit: "mg", Frequency: "three times daily"},
		{Drug: "omeprazole", MinDose: 10, MaxDose: 40, Unit: "mg", Frequency: "once daily"},
		{Drug: "furosemide", MinDose: 20, MaxDose: 80, Unit: "mg", Frequency: "once daily"},
		{Drug: "levothyroxine", MinDose: 25, MaxDose: 300, Unit: "mcg", Frequency: "once daily"},
		{Drug: "losartan", MinDose: 25, MaxDose: 100, Unit: "mg", Frequency: "once daily"},
		{Drug: "gabapentin", MinDose: 100, MaxDose: 1200, Unit: "mg", Frequency: "three times daily"},
	}
}

func builtinAlternatives() map[string][]string {
	return map[string][]string{
		"warfarin":     {"apixaban", "rivaroxaban", "dabigatran"},
		"aspirin":      {"clopidogrel", "ticagrelor"},
		"lisinopril":   {"losartan", "enalapril", "ramipril"},
		"losartan":     {"valsartan", "lisinopril"},
		"ibuprofen":    {"acetaminophen", "naproxen", "celecoxib"},
		"atorvastatin": {"rosuvastatin", "pravastatin"},
		"simvastatin":  {"atorvastatin", "rosuvastatin"},
		"metoprolol":   {"carvedilol", "atenolol"},
		"sertraline":   {"citalopram", "escitalopram"},
		"omeprazole":   {"pantoprazole", "famotidine"},
		"furosemide":   {"bumetanide", "torsemide"},
	}
}

func builtinSideEffects() map[string][]string {
	return map[string][]string{
		"lisinopril":    {"dry cough", "hyperkalemia", "hypotension"},
		"metoprolol":    {"fatigue", "bradycardia", "hypotension"},
		"amlodipine":    {"peripheral edema", "flushing", "dizziness"},
		"metformin":     {"GI upset", "metallic taste", "diarrhea"},
		"warfarin":      {"bleeding", "bruising"},
		"aspirin":       {"GI irritation", "bleeding"},
		"atorvastatin":  {"muscle aches", "elevated liver enzymes"},
		"simvastatin":   {"muscle aches", "headache"},
		"sertraline":    {"nausea", "insomnia", "dizziness"},
		"ibuprofen":     {"GI upset", "fluid retention"},
		"omeprazole":    {"headache", "abdominal pain"},
		"furosemide":    {"dehydration", "electrolyte imbalance"},
		"levothyroxine": {"palpitations", "weight loss", "insomnia"},
		"gabapentin":    {"drowsiness", "dizziness"},
	}
}

func builtinClasses() map[string][]string {
	return map[string][]string{
		"anticoagulants":  {"warfarin", "heparin", "rivaroxaban", "apixaban", "dabigatran"},
		"antiplatelets":   {"aspirin", "clopidogrel", "ticagrelor", "prasugrel"},
		"ace_inhibitors":  {"lisinopril", "enalapril", "captopril", "ramipril"},
		"arbs":            {"losartan", "valsartan", "irbesartan", "olmesartan"},
		"diuretics":       {"furosemide", "hydrochlorothiazide", "spironolactone", "amiloride"},
		"beta_blockers":   {"metoprolol", "propranolol", "atenolol", "carvedilol"},
		"statins":         {"atorvastatin", "simvastatin", "lovastatin", "rosuvastatin"},
		"nsaids":          {"ibuprofen", "naproxen", "diclofenac", "celecoxib"},
		"cyp_inhibitors":  {"ciprofloxacin", "fluconazole", "clarithromycin", "erythromycin", "ketoconazole", "fluvoxamine"},
		"ssris":           {"sertraline", "fluoxetine", "paroxetine", "citalopram"},
		"snris":           {"venlafaxine", "duloxetine", "desvenlafaxine"},
		"benzodiazepines": {"lorazepam", "alprazolam", "clonazepam", "diazepam"},
		"opioids":         {"morphine", "oxycodone", "hydrocodone", "tramadol", "codeine"},
	}
}

var highRiskCombos = []classCombo{
	{
		left:        []string{"anticoagulants"},
		right:       []string{"antiplatelets"},
		description: "Increased bleeding risk due to additive anticoagulant effects",
	},
	{
		left:        []string{"anticoagulants"},
		right:       []string{"nsaids"},
		description: "NSAIDs may increase bleeding risk and reduce anticoagulant effectiveness",
	},
	{
		left:        []string{"ace_inhibitors", "arbs"},
		right:       []string{"diuretics"},
		description: "Risk of hypotension and hyperkalemia",
	},
	{
		left:        []string{"cyp_inhibitors"},
		right:       []string{"statins"},
		description: "Increased statin levels may lead to muscle toxicity",
	},
	{
		left:        []string{"ssris", "snris"},
		right:       []string{"opioids"},
		description: "Risk of serotonin syndrome and CNS depression",
	},
	{
		left:        []string{"benzodiazepines"},
		right:       []string{"opioids"},
		description: "Dangerous CNS depression and respiratory depression",
	},
	{
		left:        []string{"beta_blockers"},
		right:       []string{"diuretics"},
		description: "Risk of hypotension and electrolyte imbalances",
	},
}

var mediumRiskCombos = []classCombo{
	{
		left:        []string{"cyp_inhibitors"},
		right:       []string{"beta_blockers"},
		description: "CYP450 inhibition may raise beta blocker exposure",
	},
	{
		left:        []string{"nsaids"},
		right:       []string{"diuretics"},
		description: "NSAIDs may blunt diuretic effect and stress renal function",
	},
	{
		left:        []string{"ace_inhibitors"},
		right:       []string{"nsaids"},
		description: "NSAIDs may blunt the antihypertensive effect and worsen renal function",
	},
	{
		left:        []string{"statins"},
		right:       []string{"ssris"},
		description: "Possible increase in statin exposure",
	},
}
