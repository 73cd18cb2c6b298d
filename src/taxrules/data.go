package taxrules

import (
	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// noLimit caps the top bracket of every schedule.
var noLimit = d("999999999")

// builtinRules returns the tables shipped with the binary. Additional or
// corrected years come from the TAX_RULES_PATH JSON file, not from edits
// here.
func builtinRules() []*YearRules {
	return []*YearRules{rules2025()}
}

func rules2025() *YearRules {
	singleIRMAA := []IRMAABracket{
		{LowerBound: decimal.Zero, Tier: "Standard premium"},
		{LowerBound: d("106000"), Tier: "Tier 1"},
		{LowerBound: d("133000"), Tier: "Tier 2"},
		{LowerBound: d("167000"), Tier: "Tier 3"},
		{LowerBound: d("200000"), Tier: "Tier 4"},
		{LowerBound: d("500000"), Tier: "Tier 5"},
	}
	jointIRMAA := []IRMAABracket{
		{LowerBound: decimal.Zero, Tier: "Standard premium"},
		{LowerBound: d("212000"), Tier: "Tier 1"},
		{LowerBound: d("266000"), Tier: "Tier 2"},
		{LowerBound: d("334000"), Tier: "Tier 3"},
		{LowerBound: d("400000"), Tier: "Tier 4"},
		{LowerBound: d("750000"), Tier: "Tier 5"},
	}

	singleFederal := []RateBracket{
		{UpperBound: d("11925"), Rate: d("0.10")},
		{UpperBound: d("48475"), Rate: d("0.12")},
		{UpperBound: d("103350"), Rate: d("0.22")},
		{UpperBound: d("197300"), Rate: d("0.24")},
		{UpperBound: d("250525"), Rate: d("0.32")},
		{UpperBound: d("626350"), Rate: d("0.35")},
		{UpperBound: noLimit, Rate: d("0.37")},
	}
	jointFederal := []RateBracket{
		{UpperBound: d("23850"), Rate: d("0.10")},
		{UpperBound: d("96950"), Rate: d("0.12")},
		{UpperBound: d("206700"), Rate: d("0.22")},
		{UpperBound: d("394600"), Rate: d("0.24")},
		{UpperBound: d("501050"), Rate: d("0.32")},
		{UpperBound: d("751600"), Rate: d("0.35")},
		{UpperBound: noLimit, Rate: d("0.37")},
	}
	separateFederal := []RateBracket{
		{UpperBound: d("11925"), Rate: d("0.10")},
		{UpperBound: d("48475"), Rate: d("0.12")},
		{UpperBound: d("103350"), Rate: d("0.22")},
		{UpperBound: d("197300"), Rate: d("0.24")},
		{UpperBound: d("250525"), Rate: d("0.32")},
		{UpperBound: d("375800"), Rate: d("0.35")},
		{UpperBound: noLimit, Rate: d("0.37")},
	}
	hohFederal := []RateBracket{
		{UpperBound: d("17000"), Rate: d("0.10")},
		{UpperBound: d("64850"), Rate: d("0.12")},
		{UpperBound: d("103350"), Rate: d("0.22")},
		{UpperBound: d("197300"), Rate: d("0.24")},
		{UpperBound: d("250500"), Rate: d("0.32")},
		{UpperBound: d("626350"), Rate: d("0.35")},
		{UpperBound: noLimit, Rate: d("0.37")},
	}

	singleLTCG := []RateBracket{
		{UpperBound: d("48350"), Rate: d("0.00")},
		{UpperBound: d("533400"), Rate: d("0.15")},
		{UpperBound: noLimit, Rate: d("0.20")},
	}
	jointLTCG := []RateBracket{
		{UpperBound: d("96700"), Rate: d("0.00")},
		{UpperBound: d("600050"), Rate: d("0.15")},
		{UpperBound: noLimit, Rate: d("0.20")},
	}
	separateLTCG := []RateBracket{
		{UpperBound: d("48350"), Rate: d("0.00")},
		{UpperBound: d("300025"), Rate: d("0.15")},
		{UpperBound: noLimit, Rate: d("0.20")},
	}
	hohLTCG := []RateBracket{
		{UpperBound: d("64750"), Rate: d("0.00")},
		{UpperBound: d("566700"), Rate: d("0.15")},
		{UpperBound: noLimit, Rate: d("0.20")},
	}

	return &YearRules{
		Year: 2025,
		StandardDeductions: map[models.FilingStatus]decimal.Decimal{
			models.StatusSingle:                  d("15000"),
			models.StatusMarriedFilingJointly:    d("30000"),
			models.StatusMarriedFilingSeparately: d("15000"),
			models.StatusHeadOfHousehold:         d("22500"),
			models.StatusQualifyingWidow:         d("30000"),
		},
		IRMAABrackets: map[models.FilingStatus][]IRMAABracket{
			models.StatusSingle:                  singleIRMAA,
			models.StatusMarriedFilingJointly:    jointIRMAA,
			models.StatusMarriedFilingSeparately: singleIRMAA,
			models.StatusHeadOfHousehold:         singleIRMAA,
			models.StatusQualifyingWidow:         singleIRMAA,
		},
		FederalBrackets: map[models.FilingStatus][]RateBracket{
			models.StatusSingle:                  singleFederal,
			models.StatusMarriedFilingJointly:    jointFederal,
			models.StatusMarriedFilingSeparately: separateFederal,
			models.StatusHeadOfHousehold:         hohFederal,
			models.StatusQualifyingWidow:         jointFederal,
		},
		LTCGBrackets: map[models.FilingStatus][]RateBracket{
			models.StatusSingle:                  singleLTCG,
			models.StatusMarriedFilingJointly:    jointLTCG,
			models.StatusMarriedFilingSeparately: separateLTCG,
			models.StatusHeadOfHousehold:         hohLTCG,
			models.StatusQualifyingWidow:         jointLTCG,
		},
		// North Carolina flat rate.
		StateRate: d("0.0475"),
		StateDeductions: map[models.FilingStatus]decimal.Decimal{
			models.StatusSingle:                  d("12750"),
			models.StatusMarriedFilingJointly:    d("25500"),
			models.StatusMarriedFilingSeparately: d("12750"),
			models.StatusHeadOfHousehold:         d("19125"),
			models.StatusQualifyingWidow:         d("25500"),
		},
	}
}
