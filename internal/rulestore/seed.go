package rulestore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/appContable/statement-core/internal/models"
)

// seedFile is the YAML shape of a bank-rule seed file:
//
//	rules:
//	  - bank: pichincha
//	    pattern: "PAGO TARJETA"
//	    type: contains
//	    category: Gastos
//	    subcategory: Tarjetas
//	    priority: 10
type seedFile struct {
	Rules []seedRule `yaml:"rules"`
}

type seedRule struct {
	Bank        string `yaml:"bank"`
	Pattern     string `yaml:"pattern"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
	Priority    int    `yaml:"priority"`
}

// LoadSeedFile reads and validates a bank-rule seed file.
func LoadSeedFile(path string) ([]models.Rule, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-provided seed file path
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}

	rules := make([]models.Rule, 0, len(file.Rules))
	for i, seed := range file.Rules {
		patternType := models.PatternType(seed.Type)
		if seed.Type == "" {
			patternType = models.MatchContains
		}
		if !patternType.Valid() {
			return nil, fmt.Errorf("seed rule %d: unknown pattern type %q", i, seed.Type)
		}
		if seed.Bank == "" || seed.Pattern == "" || seed.Category == "" {
			return nil, fmt.Errorf("seed rule %d: bank, pattern and category are required", i)
		}
		priority := seed.Priority
		if priority <= 0 {
			priority = models.DefaultRulePriority
		}
		rules = append(rules, models.Rule{
			Bank:        seed.Bank,
			Pattern:     seed.Pattern,
			PatternType: patternType,
			Category:    seed.Category,
			Subcategory: seed.Subcategory,
			Priority:    priority,
		})
	}
	return rules, nil
}
