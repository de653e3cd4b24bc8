package domain

import (
	"sort"
	"strings"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
)

// ContractType is the canonical contract category persisted for querying and reporting.
type ContractType string

const (
	ContractTypeService             ContractType = "service"
	ContractTypeFreelance           ContractType = "freelance"
	ContractTypeEmployment          ContractType = "employment"
	ContractTypeConsulting          ContractType = "consulting"
	ContractTypeNDA                 ContractType = "nda"
	ContractTypeLicense             ContractType = "license"
	ContractTypeLease               ContractType = "lease"
	ContractTypeSales               ContractType = "sales"
	ContractTypePartnership         ContractType = "partnership"
	ContractTypeMaintenance         ContractType = "maintenance"
	ContractTypeSubscription        ContractType = "subscription"
	ContractTypeSupply              ContractType = "supply"
	ContractTypeAgency              ContractType = "agency"
	ContractTypeLoan                ContractType = "loan"
	ContractTypeConstruction        ContractType = "construction"
	ContractTypeSoftwareDevelopment ContractType = "software_development"
	ContractTypeMarketing           ContractType = "marketing"
	ContractTypeRetainer            ContractType = "retainer"
	ContractTypeDistribution        ContractType = "distribution"
	ContractTypeOther               ContractType = "other"
)

// contractTypeSynonyms maps every accepted user-facing key to its canonical type.
var contractTypeSynonyms = map[string]ContractType{
	"service":                  ContractTypeService,
	"services":                 ContractTypeService,
	"service_agreement":        ContractTypeService,
	"master_service_agreement": ContractTypeService,
	"msa":                      ContractTypeService,
	"professional_services":    ContractTypeService,

	"freelance":              ContractTypeFreelance,
	"freelancer":             ContractTypeFreelance,
	"independent_contractor": ContractTypeFreelance,
	"contractor":             ContractTypeFreelance,
	"self_employed":          ContractTypeFreelance,
	"gig":                    ContractTypeFreelance,

	"employment":   ContractTypeEmployment,
	"employee":     ContractTypeEmployment,
	"job_offer":    ContractTypeEmployment,
	"offer_letter": ContractTypeEmployment,
	"full_time":    ContractTypeEmployment,
	"part_time":    ContractTypeEmployment,
	"internship":   ContractTypeEmployment,

	"consulting":  ContractTypeConsulting,
	"consultancy": ContractTypeConsulting,
	"consultant":  ContractTypeConsulting,
	"advisory":    ContractTypeConsulting,

	"nda":                      ContractTypeNDA,
	"non_disclosure":           ContractTypeNDA,
	"non_disclosure_agreement": ContractTypeNDA,
	"confidentiality":          ContractTypeNDA,
	"mutual_nda":               ContractTypeNDA,

	"license":          ContractTypeLicense,
	"licence":          ContractTypeLicense,
	"licensing":        ContractTypeLicense,
	"white_label":      ContractTypeLicense,
	"software_license": ContractTypeLicense,
	"ip_license":       ContractTypeLicense,

	"lease":           ContractTypeLease,
	"rental":          ContractTypeLease,
	"rent":            ContractTypeLease,
	"equipment_lease": ContractTypeLease,
	"property_lease":  ContractTypeLease,

	"sales":              ContractTypeSales,
	"sale":               ContractTypeSales,
	"purchase":           ContractTypeSales,
	"purchase_agreement": ContractTypeSales,
	"bill_of_sale":       ContractTypeSales,

	"partnership":   ContractTypePartnership,
	"joint_venture": ContractTypePartnership,
	"collaboration": ContractTypePartnership,

	"maintenance":             ContractTypeMaintenance,
	"support":                 ContractTypeMaintenance,
	"sla":                     ContractTypeMaintenance,
	"service_level_agreement": ContractTypeMaintenance,

	"subscription": ContractTypeSubscription,
	"saas":         ContractTypeSubscription,
	"recurring":    ContractTypeSubscription,

	"supply":      ContractTypeSupply,
	"supplier":    ContractTypeSupply,
	"vendor":      ContractTypeSupply,
	"procurement": ContractTypeSupply,

	"agency":         ContractTypeAgency,
	"representation": ContractTypeAgency,

	"loan":            ContractTypeLoan,
	"credit":          ContractTypeLoan,
	"promissory_note": ContractTypeLoan,

	"construction": ContractTypeConstruction,
	"building":     ContractTypeConstruction,
	"renovation":   ContractTypeConstruction,

	"software_development": ContractTypeSoftwareDevelopment,
	"development":          ContractTypeSoftwareDevelopment,
	"web_development":      ContractTypeSoftwareDevelopment,
	"app_development":      ContractTypeSoftwareDevelopment,

	"marketing":   ContractTypeMarketing,
	"advertising": ContractTypeMarketing,
	"influencer":  ContractTypeMarketing,
	"sponsorship": ContractTypeMarketing,

	"retainer":           ContractTypeRetainer,
	"retainer_agreement": ContractTypeRetainer,

	"distribution": ContractTypeDistribution,
	"distributor":  ContractTypeDistribution,
	"reseller":     ContractTypeDistribution,
	"franchise":    ContractTypeDistribution,

	"other":   ContractTypeOther,
	"custom":  ContractTypeOther,
	"general": ContractTypeOther,
}

// contractTypeKey folds case, spaces and hyphens so "Independent Contractor" and
// "independent-contractor" hit the same entry.
func contractTypeKey(input string) string {
	k := strings.ToLower(strings.TrimSpace(input))
	k = strings.ReplaceAll(k, "-", "_")
	return strings.Join(strings.Fields(k), "_")
}

// NormalizeContractType resolves a user-facing type to its canonical value.
func NormalizeContractType(input string) (ContractType, error) {
	ct, ok := contractTypeSynonyms[contractTypeKey(input)]
	if !ok {
		return "", apperrors.NewUnsupportedContractTypeError(input, ContractTypeKeys())
	}
	return ct, nil
}

// IsSupportedContractType reports whether input has a canonical mapping.
func IsSupportedContractType(input string) bool {
	_, ok := contractTypeSynonyms[contractTypeKey(input)]
	return ok
}

// ContractTypeKeys lists every accepted input key, sorted.
func ContractTypeKeys() []string {
	keys := make([]string, 0, len(contractTypeSynonyms))
	for k := range contractTypeSynonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CanonicalContractTypes lists the distinct canonical values, sorted.
func CanonicalContractTypes() []ContractType {
	seen := make(map[ContractType]struct{})
	out := make([]ContractType, 0, 20)
	for _, ct := range contractTypeSynonyms {
		if _, ok := seen[ct]; ok {
			continue
		}
		seen[ct] = struct{}{}
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
