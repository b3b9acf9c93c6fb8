package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/tecu23/chessclock/pkg/chess"
)

// policyFile is the HCL schema of a time control file. Top-level values apply
// to both sides; left and right blocks override them.
//
//	rule_set  = "fischer"
//	main_time = "5m"
//	increment = "3s"
//
//	right {
//	  main_time = "3m"
//	}
type policyFile struct {
	RuleSet    string    `hcl:"rule_set"`
	MainTime   *string   `hcl:"main_time,optional"`
	Increment  *string   `hcl:"increment,optional"`
	ByoPeriods *int      `hcl:"byo_periods,optional"`
	Left       *sideFile `hcl:"left,block"`
	Right      *sideFile `hcl:"right,block"`
}

type sideFile struct {
	MainTime   *string `hcl:"main_time,optional"`
	Increment  *string `hcl:"increment,optional"`
	ByoPeriods *int    `hcl:"byo_periods,optional"`
}

// LoadTimeControl reads a time control from an HCL file
func LoadTimeControl(path string) (chess.TimeControl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chess.TimeControl{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	return ParseTimeControl(data, path)
}

// ParseTimeControl decodes HCL source. Policy files are always native HCL
// syntax whatever their extension; filename is used in diagnostics.
func ParseTimeControl(data []byte, filename string) (chess.TimeControl, error) {
	// hclsimple picks the syntax from the extension
	name := filename
	if filepath.Ext(name) != ".hcl" {
		name += ".hcl"
	}

	var f policyFile
	if err := hclsimple.Decode(name, data, nil, &f); err != nil {
		return chess.TimeControl{}, fmt.Errorf("%s: HCL decode error: %w", filename, err)
	}

	rule, err := chess.ParseRuleSet(f.RuleSet)
	if err != nil {
		return chess.TimeControl{}, err
	}

	tc := chess.TimeControl{RuleSet: rule}
	shared := sideFile{MainTime: f.MainTime, Increment: f.Increment, ByoPeriods: f.ByoPeriods}

	for side, block := range map[chess.Side]*sideFile{chess.Left: f.Left, chess.Right: f.Right} {
		settings := shared.merge(block)
		if err := settings.apply(&tc, side); err != nil {
			return chess.TimeControl{}, fmt.Errorf("%s: %w", filename, err)
		}
	}

	return tc, nil
}

// merge returns s with every field set in override replaced
func (s sideFile) merge(override *sideFile) sideFile {
	if override == nil {
		return s
	}
	if override.MainTime != nil {
		s.MainTime = override.MainTime
	}
	if override.Increment != nil {
		s.Increment = override.Increment
	}
	if override.ByoPeriods != nil {
		s.ByoPeriods = override.ByoPeriods
	}
	return s
}

func (s sideFile) apply(tc *chess.TimeControl, side chess.Side) error {
	if s.MainTime != nil {
		d, err := time.ParseDuration(*s.MainTime)
		if err != nil {
			return fmt.Errorf("%s main_time: %w", side, err)
		}
		if err := tc.SetMainTime(side, d); err != nil {
			return err
		}
	}

	if s.Increment != nil {
		d, err := time.ParseDuration(*s.Increment)
		if err != nil {
			return fmt.Errorf("%s increment: %w", side, err)
		}
		if err := tc.SetIncrement(side, d); err != nil {
			return err
		}
	}

	if s.ByoPeriods != nil {
		if err := tc.SetByoPeriods(side, *s.ByoPeriods); err != nil {
			return err
		}
	}

	return nil
}

// EncodeTimeControl generates HCL for tc, one block per side
func EncodeTimeControl(tc chess.TimeControl) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("rule_set", cty.StringVal(tc.RuleSet.String()))

	for _, side := range chess.Sides {
		body.AppendNewline()
		block := body.AppendNewBlock(side.String(), nil).Body()
		block.SetAttributeValue("main_time", cty.StringVal(tc.MainTime(side).String()))
		block.SetAttributeValue("increment", cty.StringVal(tc.Increment(side).String()))
		block.SetAttributeValue("byo_periods", cty.NumberIntVal(int64(tc.ByoPeriods(side))))
	}

	return f.Bytes()
}

// SaveTimeControl writes tc to path as HCL
func SaveTimeControl(path string, tc chess.TimeControl) error {
	if err := os.WriteFile(path, EncodeTimeControl(tc), 0o644); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}

	return nil
}
