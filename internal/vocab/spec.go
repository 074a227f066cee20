package vocab

// Spec is the plain, YAML-loadable form of a Vocabulary. DefaultSpec holds
// the built-in tables; a config file may extend them through Merge.
type Spec struct {
	Synonyms      map[string][]string `yaml:"synonyms"`
	PriceSuffixes map[string]string   `yaml:"price_suffixes"`
	PriceAliases  map[string]string   `yaml:"price_aliases"`
	NullTokens    []string            `yaml:"null_tokens"`
	AbsurdAmounts []float64           `yaml:"absurd_amounts"`
	HeaderPrefix  []string            `yaml:"header_prefixes"`
	HeaderNames   []string            `yaml:"header_names"`
	PricingTokens []string            `yaml:"pricing_tokens"`
	AdminTokens   []string            `yaml:"admin_tokens"`
	CodeTypes     map[string]string   `yaml:"code_types"`
	MetaSynonyms  map[string][]string `yaml:"meta_synonyms"`
}

// DefaultSpec returns a fresh copy of the built-in vocabulary.
func DefaultSpec() Spec {
	return Spec{
		Synonyms: map[string][]string{
			string(FieldPayer): {
				"payer_name", "payer", "insurance", "insurance_name", "payername",
				"company", "insurer", "carrier", "health_plan", "health_insurance",
			},
			string(FieldPlan): {
				"plan_name", "plan", "plan_type", "product", "line_of_business", "lob",
				"network", "tier", "coverage", "coverage_type", "insurance_type",
			},
			string(FieldBillingClass):  {"billing_class"},
			string(FieldSetting):       {"setting"},
			string(FieldCurrency):      {"currency"},
			string(FieldEffectiveDate): {"effective_date", "start_date"},
			string(FieldExpiresOn):     {"expires_on", "end_date"},
			string(FieldNegotiatedAlgorithm): {
				"negotiated_algorithm", "standard_charge|negotiated_algorithm", "algorithm", "pricing_algorithm",
			},
			string(FieldMethodology): {
				"methodology", "standard_charge|methodology", "pricing_methodology", "calc_method", "calculation_method",
			},
			string(FieldEstimatedAmount): {"estimated_amount", "estimate", "estimated_price", "est_amount"},
			string(FieldNotes): {
				"additional_generic_notes", "additional_payer_notes", "payer_notes", "notes",
			},
			string(FieldModifiers): {"modifiers", "modifier"},
			string(FieldDrugUnit):  {"drug_unit_of_measurement"},
			string(FieldDrugType):  {"drug_type_of_measurement"},
			string(FieldDescription): {
				"description", "service_description", "procedure_description", "item_description",
				"long_description", "short_description", "charge_description",
				"standard_charge_description", "display_description", "name", "label",
			},
		},
		PriceSuffixes: map[string]string{
			"gross":                 "chargemaster",
			"gross_charge":          "chargemaster",
			"gross_charges":         "chargemaster",
			"discounted_cash":       "cash",
			"negotiated_dollar":     "negotiated_dollar",
			"negotiated_percentage": "negotiated_percentage",
			"min":                   "min",
			"max":                   "max",
		},
		PriceAliases: map[string]string{
			"standard_charge":       "chargemaster",
			"gross":                 "chargemaster",
			"gross_charge":          "chargemaster",
			"gross_charges":         "chargemaster",
			"chargemaster":          "chargemaster",
			"discounted_cash":       "cash",
			"cash":                  "cash",
			"cash_price":            "cash",
			"negotiated_dollar":     "negotiated_dollar",
			"negotiated_rate":       "negotiated_dollar",
			"payer_specific":        "negotiated_dollar",
			"contracted_rate":       "negotiated_dollar",
			"allowed_amount":        "negotiated_dollar",
			"percentage":            "negotiated_percentage",
			"negotiated_percentage": "negotiated_percentage",
			"min":                   "min",
			"max":                   "max",
		},
		NullTokens: []string{
			"na", "n/a", "none", "null", "nan", "not disclosed", "not_disclosed", "not available", "n.a.",
		},
		AbsurdAmounts: []float64{999999999},
		HeaderPrefix:  []string{"standard_charge"},
		HeaderNames:   []string{"code", "code|1", "code|1|type", "payer_name", "plan_name"},
		PricingTokens: []string{
			"description", "code|", "code|1", "code|1|type", "code|2", "code|2|type",
			"standard_charge", "standard_charge|gross", "standard_charge|discounted_cash",
			"standard_charge|negotiated_dollar", "standard_charge|negotiated_percentage",
			"standard_charge|min", "standard_charge|max",
			"payer_name", "plan_name", "billing_class", "setting", "currency",
		},
		AdminTokens: []string{
			"hospital_name", "last_updated_on", "hospital_location", "hospital_address",
			"license_number|", "license_number|wa", "version",
			"to the best of its knowledge", "45 cfr 180.50", "attestation",
			"standard charge information",
		},
		CodeTypes: map[string]string{},
		MetaSynonyms: map[string][]string{
			MetaHospitalName:     {"hospital_name", "facility_name", "provider_name", "hospital", "facility"},
			MetaHospitalLocation: {"hospital_location", "location", "address_city_state_zip", "city_state_zip", "city_state_zip_code"},
			MetaHospitalAddress:  {"hospital_address", "address", "street", "street_address", "address_line_1", "address_1"},
			MetaLastUpdatedOn:    {"last_updated_on", "last_updated", "updated_on", "update_date", "date"},
			MetaVersion:          {"version", "schema_version", "file_version"},
			MetaLicenseNumber: {
				"license_number", "facility_license_number", "hospital_license_number",
				"license_no", "state_license_number", "license",
			},
		},
	}
}

// Merge extends s with the entries of o: synonym and token lists are
// appended, map entries are set, and a non-empty AbsurdAmounts replaces
// the current list.
func (s Spec) Merge(o Spec) Spec {
	out := s.clone()
	for field, names := range o.Synonyms {
		out.Synonyms[field] = append(out.Synonyms[field], names...)
	}
	for k, v := range o.PriceSuffixes {
		out.PriceSuffixes[k] = v
	}
	for k, v := range o.PriceAliases {
		out.PriceAliases[k] = v
	}
	for k, v := range o.CodeTypes {
		out.CodeTypes[k] = v
	}
	for key, names := range o.MetaSynonyms {
		out.MetaSynonyms[key] = append(out.MetaSynonyms[key], names...)
	}
	out.NullTokens = append(out.NullTokens, o.NullTokens...)
	out.HeaderPrefix = append(out.HeaderPrefix, o.HeaderPrefix...)
	out.HeaderNames = append(out.HeaderNames, o.HeaderNames...)
	out.PricingTokens = append(out.PricingTokens, o.PricingTokens...)
	out.AdminTokens = append(out.AdminTokens, o.AdminTokens...)
	if len(o.AbsurdAmounts) > 0 {
		out.AbsurdAmounts = append([]float64(nil), o.AbsurdAmounts...)
	}
	return out
}

func (s Spec) clone() Spec {
	out := Spec{
		Synonyms:      make(map[string][]string, len(s.Synonyms)),
		PriceSuffixes: make(map[string]string, len(s.PriceSuffixes)),
		PriceAliases:  make(map[string]string, len(s.PriceAliases)),
		CodeTypes:     make(map[string]string, len(s.CodeTypes)),
		MetaSynonyms:  make(map[string][]string, len(s.MetaSynonyms)),
		NullTokens:    append([]string(nil), s.NullTokens...),
		AbsurdAmounts: append([]float64(nil), s.AbsurdAmounts...),
		HeaderPrefix:  append([]string(nil), s.HeaderPrefix...),
		HeaderNames:   append([]string(nil), s.HeaderNames...),
		PricingTokens: append([]string(nil), s.PricingTokens...),
		AdminTokens:   append([]string(nil), s.AdminTokens...),
	}
	for k, v := range s.Synonyms {
		out.Synonyms[k] = append([]string(nil), v...)
	}
	for k, v := range s.PriceSuffixes {
		out.PriceSuffixes[k] = v
	}
	for k, v := range s.PriceAliases {
		out.PriceAliases[k] = v
	}
	for k, v := range s.CodeTypes {
		out.CodeTypes[k] = v
	}
	for k, v := range s.MetaSynonyms {
		out.MetaSynonyms[k] = append([]string(nil), v...)
	}
	return out
}
