package sql

import (
	"strconv"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/fguintu/FlySQL/pkg/models"
)

// InjectionCheckResult describes a bind value that looks like SQL injection.
type InjectionCheckResult struct {
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // Parameter name, or "$N" for positional values
	ParamValue  any
}

// CheckParameterForInjection runs libinjection over a string bind value.
// Non-string values cannot carry an injection and return nil.
func CheckParameterForInjection(paramName string, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		Fingerprint: string(fingerprint),
		ParamName:   paramName,
		ParamValue:  value,
	}
}

// CheckAllParameters returns a result for every bind value that matches an
// injection pattern, in parameter order.
//
// Values are always sent to the database as bound parameters, so a match is
// advisory: callers log it and still execute the statement.
func CheckAllParameters(params models.Params) []*InjectionCheckResult {
	var results []*InjectionCheckResult

	if params.IsNamed() {
		for _, name := range params.Names() {
			value, _ := params.Get(name)
			if result := CheckParameterForInjection(name, value); result != nil {
				results = append(results, result)
			}
		}
		return results
	}

	for i, value := range params.Values() {
		if result := CheckParameterForInjection("$"+strconv.Itoa(i+1), value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
