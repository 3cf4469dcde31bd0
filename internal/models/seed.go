package models

// CurrentVersion is the document schema version written by this build.
const CurrentVersion = 1

// SeedDocument returns the deterministic first-run document: one worked
// example entry so the catalog is never empty on a fresh device. Missing or
// unreadable persisted state is replaced by this seed rather than an error.
func SeedDocument() *Document {
	return &Document{
		Version: CurrentVersion,
		Clinic: Clinic{
			Name:  "EH Clinic",
			Owner: "Practice Owner",
		},
		Diseases: []Disease{
			{
				ID:   "seed-anaemia-general",
				Name: "Anaemia (General)",
				Symptoms: []string{
					"Fatigue",
					"Pallor",
					"Shortness of breath on exertion",
					"Dizziness",
				},
				LabTests: []string{
					"Full blood count",
					"Serum ferritin",
					"Peripheral blood smear",
				},
				DiagnosisNotes: "Confirm with haemoglobin below the age/sex reference range. " +
					"Classify by MCV before choosing a workup path.",
				Treatment: "Treat the underlying cause. Oral iron for confirmed iron deficiency; " +
					"review in 4 weeks with a repeat full blood count.",
				References: []Reference{
					{
						ID:    "seed-ref-anaemia-search",
						Kind:  ReferenceKindGoogle,
						Label: "Anaemia overview",
						URL:   SearchURL("Anaemia (General)"),
					},
				},
			},
		},
	}
}
