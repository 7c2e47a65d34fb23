package seed

import "github.com/onco-treatment-selector/internal/domain"

func psRange(min, max int) (*int, *int) {
	return &min, &max
}

// Mappings returns the built-in protocol mappings. NCCN references point at
// the guideline page each protocol was taken from.
func Mappings() []domain.TreatmentMapping {
	psLo02, psHi02 := psRange(0, 2)
	psLo01, psHi01 := psRange(0, 1)

	return []domain.TreatmentMapping{
		{
			ID:                    "9c7a3de1-20c4-4f6e-8a14-1f36b5a9d201",
			CancerType:            "Non-Small Cell Lung Cancer",
			Histology:             "Adenocarcinoma",
			Biomarkers:            []string{"EGFR Exon 19 Deletion"},
			ConflictingBiomarkers: []string{"ALK Fusion", "ROS1 Fusion", "KRAS G12C"},
			TreatmentIntent:       "Palliative",
			LineOfTreatment:       "1st Line",
			RequiredStage:         []string{"Stage IV"},
			PerformanceStatusMin:  psLo02,
			PerformanceStatusMax:  psHi02,
			TreatmentProtocol:     "Osimertinib 80mg daily",
			EvidenceReference:     "Category 1",
			NCCNReference:         "NSCL-B.1",
			ConfidenceScore:       0.95,
			PriorityTag:           domain.PriorityPreferred,
			ToxicityLevel:         "Low",
			IsActive:              true,
		},
		{
			ID:                    "b4f0e8aa-51d9-4f02-9b7c-83a2c6de4412",
			CancerType:            "Non-Small Cell Lung Cancer",
			Histology:             "Adenocarcinoma",
			Biomarkers:            []string{"EGFR L858R"},
			ConflictingBiomarkers: []string{"ALK Fusion", "ROS1 Fusion", "KRAS G12C"},
			TreatmentIntent:       "Palliative",
			LineOfTreatment:       "1st Line",
			RequiredStage:         []string{"Stage IV"},
			TreatmentProtocol:     "Osimertinib 80mg daily",
			EvidenceReference:     "Category 1",
			NCCNReference:         "NSCL-B.1",
			ConfidenceScore:       0.95,
			PriorityTag:           domain.PriorityPreferred,
			ToxicityLevel:         "Low",
			IsActive:              true,
		},
		{
			ID:                    "e1a9427b-6f3c-4d58-b2e0-7c94d1aa8823",
			CancerType:            "Non-Small Cell Lung Cancer",
			Histology:             "Adenocarcinoma",
			Biomarkers:            []string{"ALK Fusion"},
			ConflictingBiomarkers: []string{"EGFR Exon 19 Deletion", "EGFR L858R", "KRAS G12C"},
			TreatmentIntent:       "Palliative",
			LineOfTreatment:       "1st Line",
			RequiredStage:         []string{"Stage IV"},
			TreatmentProtocol:     "Alectinib 600mg BID",
			EvidenceReference:     "Category 1",
			NCCNReference:         "NSCL-B.2",
			ConfidenceScore:       0.94,
			PriorityTag:           domain.PriorityPreferred,
			ToxicityLevel:         "Low",
			IsActive:              true,
		},
		{
			ID:                    "f82c50de-9a14-4bc8-a6d3-52e8f7b90034",
			CancerType:            "Non-Small Cell Lung Cancer",
			Histology:             "Adenocarcinoma",
			Biomarkers:            []string{"KRAS G12C"},
			ConflictingBiomarkers: []string{"EGFR Exon 19 Deletion", "EGFR L858R", "ALK Fusion"},
			TreatmentIntent:       "Palliative",
			LineOfTreatment:       "2nd Line",
			RequiredStage:         []string{"Stage IV"},
			TreatmentProtocol:     "Sotorasib 960mg daily",
			EvidenceReference:     "Category 2A",
			NCCNReference:         "NSCL-B.3",
			ConfidenceScore:       0.88,
			PriorityTag:           domain.PriorityAlternative,
			ToxicityLevel:         "Moderate",
			IsActive:              true,
		},
		{
			ID:                   "3d6b81f0-c7e5-4a29-9f14-b08a6c5d2245",
			CancerType:           "Non-Small Cell Lung Cancer",
			Histology:            "Squamous Cell Carcinoma",
			Biomarkers:           []string{"PD-L1 ≥50%"},
			TreatmentIntent:      "Palliative",
			LineOfTreatment:      "1st Line",
			RequiredStage:        []string{"Stage IV"},
			PerformanceStatusMin: psLo02,
			PerformanceStatusMax: psHi02,
			TreatmentProtocol:    "Pembrolizumab 400mg Q6W",
			EvidenceReference:    "Category 1",
			NCCNReference:        "NSCL-C.1",
			ConfidenceScore:      0.92,
			PriorityTag:          domain.PriorityPreferred,
			ToxicityLevel:        "Moderate",
			IsActive:             true,
		},
		{
			ID:                "a5e93c27-48d1-4b06-8e72-f19d0b3c6656",
			CancerType:        "Small Cell Lung Cancer",
			Histology:         "Small Cell Carcinoma",
			TreatmentIntent:   "Palliative",
			LineOfTreatment:   "1st Line",
			RequiredStage:     []string{"Extensive Stage"},
			TreatmentProtocol: "Carboplatin/Etoposide + Atezolizumab",
			EvidenceReference: "Category 1",
			NCCNReference:     "SCLC-E.1",
			ConfidenceScore:   0.91,
			PriorityTag:       domain.PriorityPreferred,
			ToxicityLevel:     "High",
			IsActive:          true,
		},
		{
			ID:                   "72c4f1b8-d0a6-4e53-bc19-84e7a2f50867",
			CancerType:           "Breast Cancer",
			Histology:            "Invasive Ductal Carcinoma",
			Biomarkers:           []string{"ER+", "PR+", "HER2+"},
			TreatmentIntent:      "Adjuvant",
			LineOfTreatment:      "1st Line",
			RequiredStage:        []string{"Stage II", "Stage III"},
			PerformanceStatusMin: psLo01,
			PerformanceStatusMax: psHi01,
			TreatmentProtocol:    "AC-THP (Doxorubicin/Cyclophosphamide, then Paclitaxel/Trastuzumab/Pertuzumab)",
			EvidenceReference:    "Category 1",
			NCCNReference:        "BREAST-F",
			ConfidenceScore:      0.96,
			PriorityTag:          domain.PriorityPreferred,
			ToxicityLevel:        "High",
			IsActive:             true,
		},
		{
			ID:                "58d2e9a4-7f30-4c81-a5b6-c93f1e084478",
			CancerType:        "Breast Cancer",
			Histology:         "Invasive Ductal Carcinoma",
			Biomarkers:        []string{"ER+", "PR+", "HER2-"},
			TreatmentIntent:   "Adjuvant",
			LineOfTreatment:   "1st Line",
			RequiredStage:     []string{"Stage I", "Stage II", "Stage III"},
			TreatmentProtocol: "AC-T (Doxorubicin/Cyclophosphamide, then Paclitaxel)",
			EvidenceReference: "Category 1",
			NCCNReference:     "BREAST-E",
			ConfidenceScore:   0.94,
			PriorityTag:       domain.PriorityPreferred,
			ToxicityLevel:     "High",
			IsActive:          true,
		},
		{
			ID:                "c1b7d3f5-2e84-4a09-b6c2-07d5e8f91289",
			CancerType:        "Breast Cancer",
			Histology:         "Invasive Ductal Carcinoma",
			Biomarkers:        []string{"HER2+"},
			TreatmentIntent:   "Palliative",
			LineOfTreatment:   "1st Line",
			RequiredStage:     []string{"Stage IV"},
			TreatmentProtocol: "Trastuzumab/Pertuzumab/Taxane",
			EvidenceReference: "Category 1",
			NCCNReference:     "BREAST-N",
			ConfidenceScore:   0.95,
			PriorityTag:       domain.PriorityPreferred,
			ToxicityLevel:     "Moderate",
			IsActive:          true,
		},
		{
			ID:                "6f48a0c2-91e7-4d35-8b04-d26c7a5e3090",
			CancerType:        "Colorectal Cancer",
			Histology:         "Adenocarcinoma",
			Biomarkers:        []string{"MSI-High"},
			TreatmentIntent:   "Palliative",
			LineOfTreatment:   "1st Line",
			RequiredStage:     []string{"Stage IV"},
			TreatmentProtocol: "Pembrolizumab 400mg Q6W",
			EvidenceReference: "Category 1",
			NCCNReference:     "COLON-C.1",
			ConfidenceScore:   0.94,
			PriorityTag:       domain.PriorityPreferred,
			ToxicityLevel:     "Moderate",
			IsActive:          true,
		},
		{
			ID:                    "84e6b2d9-0c53-4f17-9a28-e41f8d6b72a1",
			CancerType:            "Colorectal Cancer",
			Histology:             "Adenocarcinoma",
			ConflictingBiomarkers: []string{"MSI-High"},
			TreatmentIntent:       "Palliative",
			LineOfTreatment:       "1st Line",
			RequiredStage:         []string{"Stage IV"},
			TreatmentProtocol:     "FOLFOX + Bevacizumab",
			EvidenceReference:     "Category 1",
			NCCNReference:         "COLON-C.2",
			ConfidenceScore:       0.89,
			PriorityTag:           domain.PriorityPreferred,
			ToxicityLevel:         "High",
			IsActive:              true,
		},
		{
			ID:                    "2a95c7e1-6d40-4b8f-a3c5-19e0d4f82bb2",
			CancerType:            "Melanoma",
			Histology:             domain.HistologyAny,
			Biomarkers:            []string{"BRAF V600E"},
			TreatmentIntent:       "Palliative",
			LineOfTreatment:       "1st Line",
			RequiredStage:         []string{"Stage IV"},
			TreatmentProtocol:     "Dabrafenib + Trametinib",
			EvidenceReference:     "Category 1",
			NCCNReference:         "MEL-C.1",
			ConfidenceScore:       0.93,
			PriorityTag:           domain.PriorityPreferred,
			ToxicityLevel:         "Moderate",
			IsActive:              true,
		},
		{
			ID:                    "d07f3a86-b2e9-4c51-8d64-30a1f5c97cc3",
			CancerType:            "Melanoma",
			Histology:             domain.HistologyAny,
			ConflictingBiomarkers: []string{"BRAF V600E"},
			TreatmentIntent:       "Palliative",
			LineOfTreatment:       "1st Line",
			RequiredStage:         []string{"Stage IV"},
			TreatmentProtocol:     "Pembrolizumab 400mg Q6W",
			EvidenceReference:     "Category 1",
			NCCNReference:         "MEL-C.2",
			ConfidenceScore:       0.91,
			PriorityTag:           domain.PriorityPreferred,
			ToxicityLevel:         "Moderate",
			IsActive:              true,
		},
		{
			ID:                "41b8d5f2-9e07-4a63-bc18-52d6e0a74dd4",
			CancerType:        "Ovarian Cancer",
			Histology:         "High-Grade Serous",
			Biomarkers:        []string{"BRCA1 Mutation"},
			TreatmentIntent:   "Palliative",
			LineOfTreatment:   "1st Line",
			RequiredStage:     []string{"Stage III", "Stage IV"},
			TreatmentProtocol: "Carboplatin/Paclitaxel + Olaparib maintenance",
			EvidenceReference: "Category 1",
			NCCNReference:     "OVAR-C.1",
			ConfidenceScore:   0.95,
			PriorityTag:       domain.PriorityPreferred,
			ToxicityLevel:     "High",
			IsActive:          true,
		},
		{
			ID:                "93c0e6a7-4d12-4f85-9b3e-68f2d1c05ee5",
			CancerType:        "Ovarian Cancer",
			Histology:         "High-Grade Serous",
			Biomarkers:        []string{"HRD+"},
			TreatmentIntent:   "Palliative",
			LineOfTreatment:   "1st Line",
			RequiredStage:     []string{"Stage III", "Stage IV"},
			TreatmentProtocol: "Carboplatin/Paclitaxel + Niraparib maintenance",
			EvidenceReference: "Category 1",
			NCCNReference:     "OVAR-C.2",
			ConfidenceScore:   0.92,
			PriorityTag:       domain.PriorityPreferred,
			ToxicityLevel:     "High",
			IsActive:          true,
		},
		{
			ID:                "b62a9f04-8c57-4e31-a0d9-74e3f8b16ff6",
			CancerType:        "Prostate Cancer",
			Histology:         "Adenocarcinoma",
			TreatmentIntent:   "Palliative",
			LineOfTreatment:   "1st Line",
			RequiredStage:     []string{"Stage IV"},
			TreatmentProtocol: "Enzalutamide 160mg daily",
			EvidenceReference: "Category 1",
			NCCNReference:     "PROST-C.1",
			ConfidenceScore:   0.90,
			PriorityTag:       domain.PriorityPreferred,
			ToxicityLevel:     "Moderate",
			IsActive:          true,
		},
		// Tumor-agnostic safety nets, only reachable through relaxed matching.
		{
			ID:                   "07d4b8e3-5a96-4c20-bf17-81c5d2a39aa7",
			CancerType:           domain.CancerTypeAny,
			Histology:            domain.HistologyAny,
			Biomarkers:           []string{"MSI-High"},
			TreatmentIntent:      "Palliative",
			LineOfTreatment:      domain.LineAny,
			RequiredStage:        []string{domain.StageAll},
			PerformanceStatusMin: psLo02,
			PerformanceStatusMax: psHi02,
			TreatmentProtocol:    "Pembrolizumab 400mg Q6W",
			EvidenceReference:    "Category 2A",
			NCCNReference:        "AGNOSTIC-1",
			ConfidenceScore:      0.85,
			PriorityTag:          domain.PriorityFallback,
			ToxicityLevel:        "Moderate",
			IsActive:             true,
		},
		{
			ID:                   "ce29f7b5-1d68-4a04-92c3-b56e0d8a41b8",
			CancerType:           domain.CancerTypeAny,
			Histology:            domain.HistologyAny,
			Biomarkers:           []string{"TMB-High"},
			TreatmentIntent:      "Palliative",
			LineOfTreatment:      domain.LineAny,
			RequiredStage:        []string{domain.StageAll},
			PerformanceStatusMin: psLo02,
			PerformanceStatusMax: psHi02,
			TreatmentProtocol:    "Pembrolizumab 400mg Q6W",
			EvidenceReference:    "Category 2A",
			NCCNReference:        "AGNOSTIC-2",
			ConfidenceScore:      0.82,
			PriorityTag:          domain.PriorityFallback,
			ToxicityLevel:        "Moderate",
			IsActive:             true,
		},
	}
}
