package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync/pkg/errors"
)

// Source names the asset definition file a catalog key is generated from.
type Source struct {
	Key  string
	File string
}

// DefaultSources lists the cosmetic asset files and the document key each
// one feeds.
func DefaultSources() []Source {
	return []Source{
		{"bodyCharacteristic", "BodyCharacteristics.json"},
		{"face", "Faces.json"},
		{"eyes", "Eyes.json"},
		{"haircut", "Haircuts.json"},
		{"facialHair", "FacialHair.json"},
		{"eyebrows", "Eyebrows.json"},
		{"undertop", "Undertops.json"},
		{"underwear", "Underwear.json"},
		{"overtop", "Overtops.json"},
		{"overpants", "Overpants.json"},
		{"pants", "Pants.json"},
		{"shoes", "Shoes.json"},
		{"headAccessory", "HeadAccessory.json"},
		{"faceAccessory", "FaceAccessory.json"},
		{"ears", "Ears.json"},
		{"earAccessory", "EarAccessory.json"},
		{"skinFeature", "SkinFeatures.json"},
		{"gloves", "Gloves.json"},
		{"cape", "Capes.json"},
	}
}

// Color palette files and the rules that pick between them.
const (
	DefaultHairColorFile    = "HairColors.json"
	DefaultGenericColorFile = "GenericColors.json"

	bodyKey       = "bodyCharacteristic"
	earAccessory  = "earAccessory"
	bodyFirst     = 1
	bodyLast      = 46
	noVariantName = ""
)

var (
	hairColorKeys   = []string{"haircut", "facialHair", "eyebrows"}
	ignoreColorKeys = []string{"face", "ears"}

	// metalColors is the only palette kneepads and the restricted earrings
	// come in.
	metalColors = []string{"Gold_Red", "Silver_Blue", "Copper_Green", "Brass_Purple", "Iron_Black"}

	restrictedEarring = regexp.MustCompile(`(?i)(simpleearring|earhoops|doubleearrings)`)
	kneepads          = regexp.MustCompile(`(?i)kneepad`)

	rootKeys = []string{"Assets", "Items", "Data", "Entries"}
	idKeys   = []string{"Id", "ID", "id", "AssetId", "Key"}
)

// GenerateOption configures Generate.
type GenerateOption func(*generator)

// WithSources replaces DefaultSources.
func WithSources(sources []Source) GenerateOption {
	return func(g *generator) {
		g.sources = sources
	}
}

// WithColorFiles overrides the hair and generic palette file names.
// Empty names keep the defaults.
func WithColorFiles(hair, generic string) GenerateOption {
	return func(g *generator) {
		if hair != "" {
			g.hairFile = hair
		}
		if generic != "" {
			g.genericFile = generic
		}
	}
}

// WithBodyRange sets the inclusive numeric range expanded for every body
// characteristic.
func WithBodyRange(first, last int) GenerateOption {
	return func(g *generator) {
		g.bodyFirst, g.bodyLast = first, last
	}
}

// WithGenerateLogger sets the logger that reports skipped files.
func WithGenerateLogger(logger zerolog.Logger) GenerateOption {
	return func(g *generator) {
		g.logger = logger
	}
}

type generator struct {
	dir         string
	sources     []Source
	hairFile    string
	genericFile string
	bodyFirst   int
	bodyLast    int
	logger      zerolog.Logger
}

// asset is one (id, variant) pair read from a definition file. An empty
// variant means the entry has none.
type asset struct {
	id      string
	variant string
}

// Generate builds a catalog from the game's asset definition files in dir.
//
// Body characteristics expand to "<id>.<n>" over the body range. Faces and
// ears keep "<id>" or "<id>.<variant>". Every other key combines each
// asset with a palette into "<id>.<color>" or "<id>.<color>.<variant>":
// hair keys use the hair palette, kneepads and the restricted earrings
// use the metal palette, and everything else uses the generic palette.
//
// Missing source files are skipped. A missing palette is treated as empty.
// A file that cannot be decoded is a ParseError, and a directory that
// yields no values at all is a CatalogLoadError.
func Generate(dir string, opts ...GenerateOption) (*Catalog, error) {
	g := &generator{
		dir:         dir,
		sources:     DefaultSources(),
		hairFile:    DefaultHairColorFile,
		genericFile: DefaultGenericColorFile,
		bodyFirst:   bodyFirst,
		bodyLast:    bodyLast,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g.generate()
}

func (g *generator) generate() (*Catalog, error) {
	hair, err := g.loadColors(g.hairFile)
	if err != nil {
		return nil, err
	}
	generic, err := g.loadColors(g.genericFile)
	if err != nil {
		return nil, err
	}

	entries := make(map[string][]string)
	for _, src := range g.sources {
		path := filepath.Join(g.dir, src.File)
		if _, err := os.Stat(path); err != nil {
			g.logger.Warn().Str("file", src.File).Str("key", src.Key).Msg("Asset file not found, skipping")
			continue
		}
		assets, err := g.parseAssets(path)
		if err != nil {
			return nil, err
		}
		if len(assets) == 0 {
			continue
		}

		palette := generic
		if slices.Contains(hairColorKeys, src.Key) {
			palette = hair
		}
		values := g.expand(src.Key, assets, palette, generic)
		if len(values) == 0 {
			continue
		}
		SortNatural(values)
		entries[src.Key] = values

		g.logger.Debug().Str("key", src.Key).Int("values", len(values)).Msg("Generated catalog key")
	}

	if len(entries) == 0 {
		return nil, &errors.CatalogLoadError{Path: g.dir}
	}
	return New(entries), nil
}

func (g *generator) expand(key string, assets []asset, palette, generic []string) []string {
	set := make(map[string]struct{})
	add := func(v string) { set[v] = struct{}{} }

	switch {
	case key == bodyKey:
		for _, a := range assets {
			for i := g.bodyFirst; i <= g.bodyLast; i++ {
				add(fmt.Sprintf("%s.%d", a.id, i))
			}
		}

	case slices.Contains(ignoreColorKeys, key):
		for _, a := range assets {
			if a.variant != noVariantName {
				add(a.id + "." + a.variant)
			} else {
				add(a.id)
			}
		}

	default:
		for _, a := range assets {
			metal := matches(kneepads, a)
			earring := key == earAccessory && matches(restrictedEarring, a)

			// restricted earrings list their colors as variants; drop the
			// generic ones they do not come in
			if earring && a.variant != noVariantName &&
				slices.Contains(generic, a.variant) && !slices.Contains(metalColors, a.variant) {
				continue
			}

			colors := palette
			if metal || earring {
				colors = metalColors
			}
			for _, color := range colors {
				if a.variant != noVariantName {
					add(a.id + "." + color + "." + a.variant)
				} else {
					add(a.id + "." + color)
				}
			}
		}
	}

	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	return values
}

func matches(re *regexp.Regexp, a asset) bool {
	return re.MatchString(a.id) || (a.variant != noVariantName && re.MatchString(a.variant))
}

// loadColors reads a palette file: a JSON array of objects with an "Id".
// A missing file is an empty palette.
func (g *generator) loadColors(name string) ([]string, error) {
	path := filepath.Join(g.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		g.logger.Warn().Str("file", name).Msg("Color palette not found, using none")
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var raw any
	if err := unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse(formatOf(data), path, err)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, nil
	}

	var colors []string
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := scalar(obj["Id"]); ok {
			colors = append(colors, id)
		}
	}
	return colors, nil
}

// parseAssets reads a definition file. The root is either a list of
// entries or an object holding the list under one of rootKeys. Variants
// may be an object, whose keys are the variant names, or a list.
func (g *generator) parseAssets(path string) ([]asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var raw any
	if err := unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse(formatOf(data), path, err)
	}

	list, ok := normalizeRoot(raw)
	if !ok {
		g.logger.Warn().Str("file", filepath.Base(path)).Msg("Unsupported asset file structure, skipping")
		return nil, nil
	}

	var assets []asset
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := entryID(entry)
		if id == "" {
			continue
		}
		switch variants := entry["Variants"].(type) {
		case map[string]any:
			for name := range variants {
				assets = append(assets, asset{id: id, variant: name})
			}
		case []any:
			for _, v := range variants {
				if name, ok := scalar(v); ok {
					assets = append(assets, asset{id: id, variant: name})
				}
			}
		default:
			assets = append(assets, asset{id: id})
		}
	}
	return assets, nil
}

func normalizeRoot(raw any) ([]any, bool) {
	switch root := raw.(type) {
	case []any:
		return root, true
	case map[string]any:
		for _, key := range rootKeys {
			if list, ok := root[key].([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}

// entryID returns the first non-empty identifier field.
func entryID(entry map[string]any) string {
	for _, key := range idKeys {
		if id, ok := scalar(entry[key]); ok && id != "" && id != "0" && id != "false" {
			return id
		}
	}
	return ""
}

func scalar(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64, int, int64, uint64, bool:
		return fmt.Sprint(v), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// unmarshal decodes JSON, falling back to YAML for anything that is not
// valid JSON.
func unmarshal(data []byte, v any) error {
	if json.Valid(data) {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}
