package env

import "slices"

type SiteEnvironment struct {
	Subsites []string `validate:"required,min=1,dive,nicename"`
}

func (e SiteEnvironment) Default() string {
	if len(e.Subsites) == 0 {
		return ""
	}

	return e.Subsites[0]
}

func (e SiteEnvironment) Has(subsite string) bool {
	return slices.Contains(e.Subsites, subsite)
}
