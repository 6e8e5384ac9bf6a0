package exchange

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/snowgift/snow-gift/config"
	"github.com/snowgift/snow-gift/http"
)

type ReferenceSourceProvider func(cfg *config.Config, httpClient *http.Client) ReferencePriceSource

var providers = make(map[string]ReferenceSourceProvider)

func Register(name string, p ReferenceSourceProvider) {
	upperName := strings.ToUpper(name)
	if _, exist := providers[upperName]; exist {
		panic(fmt.Errorf("%q already exists in reference source registry", upperName))
	}
	providers[upperName] = p
}

// Factory method to create the reference price source configured by name
func NewReferenceSource(name string, cfg *config.Config, httpClient *http.Client) (ReferencePriceSource, error) {
	p, ok := providers[strings.ToUpper(name)]
	if !ok {
		return nil, errors.Errorf("unknown reference source %q, supported: %s",
			name, strings.Join(ListReferenceSources(), ", "))
	}
	return p(cfg, httpClient), nil
}

func ListReferenceSources() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)
	return names
}
