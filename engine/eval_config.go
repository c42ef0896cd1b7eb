package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigParam exposes one tunable of a Config by name, for hosts like UCI
// that set options from text.
type ConfigParam struct {
	Descr  string
	IsBool bool
	Min    int
	Max    int
	Get    func() int
	Set    func(val int)
}

// Value renders the current value the way UCI prints it.
func (p ConfigParam) Value() string {
	if p.IsBool {
		return strconv.FormatBool(p.Get() != 0)
	}
	return strconv.Itoa(p.Get())
}

// Parse validates and applies a textual value.
func (p ConfigParam) Parse(s string) error {
	if p.IsBool {
		b, err := strconv.ParseBool(strings.ToLower(s))
		if err != nil {
			return fmt.Errorf("%w: %s wants true or false, got %q", ErrInvalidConfig, p.Descr, s)
		}
		p.Set(boolInt(b))
		return nil
	}

	val, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: %s is not an int (%v)", ErrInvalidConfig, p.Descr, err)
	}
	if val < p.Min || val > p.Max {
		return fmt.Errorf("%w: %s must be in [%d, %d], got %d", ErrInvalidConfig, p.Descr, p.Min, p.Max, val)
	}
	p.Set(val)
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func registerInt(params []ConfigParam, descr string, param *int, min int, max int) []ConfigParam {
	return append(params, ConfigParam{
		Descr: descr,
		Min:   min,
		Max:   max,
		Get:   func() int { return *param },
		Set:   func(val int) { *param = val }})
}

func registerEvalCp(params []ConfigParam, descr string, param *EvalCp, min int, max int) []ConfigParam {
	return append(params, ConfigParam{
		Descr: descr,
		Min:   min,
		Max:   max,
		Get:   func() int { return int(*param) },
		Set:   func(val int) { *param = EvalCp(val) }})
}

func registerBool(params []ConfigParam, descr string, param *bool) []ConfigParam {
	return append(params, ConfigParam{
		Descr:  descr,
		IsBool: true,
		Min:    0,
		Max:    1,
		Get:    func() int { return boolInt(*param) },
		Set:    func(val int) { *param = val != 0 }})
}

// ConfigParams binds the tunables of cfg. Setting a param writes through to cfg.
func ConfigParams(cfg *Config) []ConfigParam {
	params := make([]ConfigParam, 0, 8)
	params = registerInt(params, "SearchDepth", &cfg.SearchDepth, MinDepth, MaxDepth)
	params = registerInt(params, "QSearchDepth", &cfg.QSearchDepth, 0, 1024)
	params = registerInt(params, "QSearchFloor", &cfg.QSearchFloor, -1024, 0)
	params = registerEvalCp(params, "PawnValue", &cfg.PawnValue, 1, 10000)
	params = registerBool(params, "UseQSearchMoveOrdering", &cfg.UseQSearchMoveOrdering)
	params = registerBool(params, "CheckReplyLookahead", &cfg.CheckReplyLookahead)
	return params
}

// FindConfigParam looks a param up by name, case-insensitively.
func FindConfigParam(params []ConfigParam, name string) (ConfigParam, bool) {
	for _, p := range params {
		if strings.EqualFold(p.Descr, name) {
			return p, true
		}
	}
	return ConfigParam{}, false
}
