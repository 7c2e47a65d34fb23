// Package seed provides the built-in criteria catalog and protocol mappings
// used to bootstrap a fresh database and to back the standalone stdio server.
package seed

import "github.com/onco-treatment-selector/internal/domain"

// Criteria returns the built-in criteria catalog covering every matching
// dimension. Values follow NCCN, ESMO and ASCO treatment pathways.
func Criteria() []domain.CriterionDefinition {
	defs := make([]domain.CriterionDefinition, 0, 128)

	add := func(category domain.CriterionCategory, entries []catalogEntry) {
		for i, e := range entries {
			defs = append(defs, domain.CriterionDefinition{
				Category:      category,
				Value:         e.value,
				Description:   e.description,
				EvidenceLevel: e.evidenceLevel,
				IsCommon:      e.common,
				SortOrder:     i + 1,
				IsActive:      true,
			})
		}
	}

	add(domain.CategoryCancerType, cancerTypes)
	add(domain.CategoryHistology, histologies)
	add(domain.CategoryBiomarker, biomarkers)
	add(domain.CategoryPDL1Status, pdl1Statuses)
	add(domain.CategoryTreatmentIntent, treatmentIntents)
	add(domain.CategoryLineOfTreatment, treatmentLines)
	add(domain.CategoryPerformanceStatus, performanceStatuses)
	add(domain.CategoryStage, diseaseStages)
	add(domain.CategoryResistanceMarker, resistanceMarkers)
	add(domain.CategoryTreatmentReason, treatmentReasons)
	add(domain.CategoryMolecularSubtype, molecularSubtypes)

	return defs
}

type catalogEntry struct {
	value         string
	description   string
	evidenceLevel string
	common        bool
}

var cancerTypes = []catalogEntry{
	{value: "Non-Small Cell Lung Cancer", description: "NSCLC including adenocarcinoma, squamous cell, large cell", common: true},
	{value: "Small Cell Lung Cancer", description: "SCLC neuroendocrine tumor", common: true},
	{value: "Breast Cancer", description: "All breast cancer subtypes", common: true},
	{value: "Colorectal Cancer", description: "Colon and rectal adenocarcinoma", common: true},
	{value: "Pancreatic Cancer", description: "Pancreatic ductal adenocarcinoma", common: true},
	{value: "Prostate Cancer", description: "Adenocarcinoma of prostate", common: true},
	{value: "Ovarian Cancer", description: "High-grade serous and other subtypes", common: true},
	{value: "Melanoma", description: "Cutaneous and mucosal melanoma", common: true},
	{value: "Renal Cell Carcinoma", description: "Clear cell and non-clear cell RCC", common: true},
	{value: "Hepatocellular Carcinoma", description: "Primary liver cancer"},
	{value: "Gastric Cancer", description: "Gastric and GEJ adenocarcinoma"},
	{value: "Cholangiocarcinoma", description: "Intrahepatic and extrahepatic bile duct cancer"},
	{value: "Chronic Lymphocytic Leukemia", description: "CLL B-cell malignancy"},
	{value: "Acute Myeloid Leukemia", description: "AML acute leukemia"},
	{value: "Multiple Myeloma", description: "Plasma cell malignancy"},
	{value: "Diffuse Large B-Cell Lymphoma", description: "DLBCL aggressive lymphoma"},
	{value: domain.CancerTypeAny, description: "Tumor-agnostic indication across solid tumors"},
}

var histologies = []catalogEntry{
	{value: "Adenocarcinoma", description: "Glandular epithelium carcinoma", common: true},
	{value: "Squamous Cell Carcinoma", description: "Squamous epithelium carcinoma", common: true},
	{value: "Small Cell Carcinoma", description: "Neuroendocrine small cell tumor", common: true},
	{value: "Large Cell Carcinoma", description: "Undifferentiated large cell tumor"},
	{value: "Invasive Ductal Carcinoma", description: "Breast invasive ductal carcinoma", common: true},
	{value: "Invasive Lobular Carcinoma", description: "Breast invasive lobular carcinoma"},
	{value: "High-Grade Serous", description: "Ovarian high-grade serous carcinoma", common: true},
	{value: "Clear Cell", description: "Clear cell carcinoma (renal, ovarian)"},
	{value: "Papillary", description: "Papillary carcinoma subtype"},
	{value: "Chromophobe", description: "Chromophobe renal cell carcinoma"},
	{value: domain.HistologyAny, description: "Histology-agnostic, applies to any subtype"},
}

var biomarkers = []catalogEntry{
	{value: "EGFR Exon 19 Deletion", description: "EGFR activating mutation", evidenceLevel: "FDA-approved", common: true},
	{value: "EGFR L858R", description: "EGFR point mutation in exon 21", evidenceLevel: "FDA-approved", common: true},
	{value: "EGFR T790M", description: "EGFR resistance mutation", evidenceLevel: "FDA-approved"},
	{value: "EGFR C797S", description: "Third-generation TKI resistance", evidenceLevel: "NCCN Category 2A"},
	{value: "ALK Fusion", description: "ALK rearrangement/fusion", evidenceLevel: "FDA-approved", common: true},
	{value: "ROS1 Fusion", description: "ROS1 rearrangement/fusion", evidenceLevel: "FDA-approved"},
	{value: "RET Fusion", description: "RET rearrangement/fusion", evidenceLevel: "FDA-approved"},
	{value: "KRAS G12C", description: "KRAS G12C mutation", evidenceLevel: "FDA-approved", common: true},
	{value: "KRAS G12D", description: "KRAS G12D mutation", evidenceLevel: "NCCN Category 2A", common: true},
	{value: "KRAS G12V", description: "KRAS G12V mutation", evidenceLevel: "NCCN Category 2A", common: true},
	{value: "BRAF V600E", description: "BRAF V600E mutation", evidenceLevel: "FDA-approved", common: true},
	{value: "BRAF V600K", description: "BRAF V600K mutation", evidenceLevel: "FDA-approved"},
	{value: "ER+", description: "Estrogen receptor positive (>=1%)", evidenceLevel: "FDA-approved", common: true},
	{value: "ER-", description: "Estrogen receptor negative (<1%)", evidenceLevel: "FDA-approved", common: true},
	{value: "PR+", description: "Progesterone receptor positive (>=1%)", evidenceLevel: "FDA-approved", common: true},
	{value: "PR-", description: "Progesterone receptor negative (<1%)", evidenceLevel: "FDA-approved", common: true},
	{value: "HER2+", description: "HER2 amplified/overexpressed (IHC 3+ or FISH+)", evidenceLevel: "FDA-approved", common: true},
	{value: "HER2-", description: "HER2 negative (IHC 0-1+ or FISH-)", evidenceLevel: "FDA-approved", common: true},
	{value: "HER2-low", description: "HER2 IHC 1+ or 2+/FISH-", evidenceLevel: "FDA-approved"},
	{value: "BRCA1 Mutation", description: "Germline or somatic BRCA1 mutation", evidenceLevel: "FDA-approved"},
	{value: "BRCA2 Mutation", description: "Germline or somatic BRCA2 mutation", evidenceLevel: "FDA-approved"},
	{value: "HRD+", description: "Homologous recombination deficiency positive", evidenceLevel: "FDA-approved"},
	{value: "MSI-High", description: "Microsatellite instability high", evidenceLevel: "FDA-approved"},
	{value: "dMMR", description: "Deficient mismatch repair", evidenceLevel: "FDA-approved"},
	{value: "TMB-High", description: "Tumor mutational burden >=10 mutations/MB", evidenceLevel: "FDA-approved"},
}

var pdl1Statuses = []catalogEntry{
	{value: "PD-L1 <1%", description: "PD-L1 expression <1%", common: true},
	{value: "PD-L1 1-49%", description: "PD-L1 expression 1-49%", common: true},
	{value: "PD-L1 ≥50%", description: "PD-L1 expression >=50%", common: true},
	{value: "PD-L1 ≥1%", description: "PD-L1 expression >=1%", common: true},
	{value: "PD-L1 CPS ≥1", description: "Combined positive score >=1"},
	{value: "PD-L1 CPS ≥10", description: "Combined positive score >=10"},
}

var treatmentIntents = []catalogEntry{
	{value: "Curative", description: "Intent to cure disease", common: true},
	{value: "Adjuvant", description: "Post-surgical adjuvant therapy", common: true},
	{value: "Neoadjuvant", description: "Pre-surgical neoadjuvant therapy", common: true},
	{value: "Palliative", description: "Symptom control and life extension", common: true},
	{value: "Consolidation", description: "Consolidation therapy"},
}

var treatmentLines = []catalogEntry{
	{value: "1st Line", description: "First-line systemic therapy", common: true},
	{value: "2nd Line", description: "Second-line systemic therapy", common: true},
	{value: "3rd Line", description: "Third-line systemic therapy", common: true},
	{value: "Maintenance", description: "Maintenance therapy", common: true},
	{value: "4th+ Line", description: "Fourth-line or later therapy"},
	{value: domain.LineAny, description: "Applies regardless of treatment line"},
}

var performanceStatuses = []catalogEntry{
	{value: "0", description: "ECOG 0: fully active, no restrictions", common: true},
	{value: "1", description: "ECOG 1: ambulatory, light activity only", common: true},
	{value: "2", description: "ECOG 2: up >50% of time, self-care", common: true},
	{value: "3", description: "ECOG 3: in bed >50% of time, limited self-care"},
	{value: "4", description: "ECOG 4: bedridden, no self-care"},
}

var diseaseStages = []catalogEntry{
	{value: "Stage I", description: "Early-stage localized disease", common: true},
	{value: "Stage II", description: "Locally advanced disease", common: true},
	{value: "Stage III", description: "Regional lymph node involvement", common: true},
	{value: "Stage IV", description: "Metastatic disease", common: true},
	{value: "Limited Stage", description: "SCLC limited stage"},
	{value: "Extensive Stage", description: "SCLC extensive stage"},
}

var resistanceMarkers = []catalogEntry{
	{value: "EGFR T790M", description: "First/second-gen EGFR TKI resistance"},
	{value: "EGFR C797S", description: "Third-generation EGFR TKI resistance"},
	{value: "ALK G1202R", description: "ALK inhibitor resistance mutation"},
	{value: "ALK L1196M", description: "ALK inhibitor resistance mutation"},
}

var treatmentReasons = []catalogEntry{
	{value: "Progression", description: "Disease progression on prior therapy", common: true},
	{value: "Intolerance", description: "Unacceptable toxicity on prior therapy", common: true},
	{value: "Completion", description: "Planned completion of prior therapy"},
	{value: "Recurrence", description: "Disease recurrence after curative treatment", common: true},
}

var molecularSubtypes = []catalogEntry{
	{value: "Luminal A", description: "ER+/PR+ HER2- Ki67 low", common: true},
	{value: "Luminal B", description: "ER+ HER2- Ki67 high or ER+ HER2+", common: true},
	{value: "HER2-enriched", description: "ER-/PR- HER2+", common: true},
	{value: "Triple Negative", description: "ER-/PR-/HER2-", common: true},
	{value: "Basal-like", description: "Triple negative basal subtype"},
}
