// Package catalog agrupa el catálogo en el árbol familia → tipo → calidad
// y define la navegación pura sobre ese árbol.
package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// Tree árbol de catálogo: familias (nombre) → tipos → variantes de calidad.
type Tree struct {
	Families []Family `json:"families"`
}

// Family productos que comparten nombre ("Papa").
type Family struct {
	Key   string     `json:"key"`
	Name  string     `json:"name"`
	Types []TypeNode `json:"types"`
}

// TypeNode tipo dentro de una familia ("Amarilla").
type TypeNode struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// Variant hoja del árbol: una calidad concreta, que es un producto.
type Variant struct {
	ProductID        string          `json:"product_id"`
	Quality          string          `json:"quality"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
}

var titleCaser = cases.Title(language.Spanish)

// Key normaliza un texto para agrupar: sin tildes, sin espacios extra, en minúsculas.
// "  Papá  AMARILLA " y "papa amarilla" producen la misma clave.
func Key(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Fold().String(strings.Join(strings.Fields(folded), " "))
}

// Label nombre para mostrar en formato título.
func Label(s string) string {
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}

// Group construye el árbol con los productos activos. Familias, tipos y calidades
// quedan ordenados por clave; el primer nombre visto de cada grupo se usa como etiqueta.
func Group(products []*entity.Product) Tree {
	families := map[string]*Family{}
	types := map[string]map[string]*TypeNode{}
	for _, p := range products {
		if p == nil || !p.IsActive {
			continue
		}
		fk := Key(p.Name)
		fam, ok := families[fk]
		if !ok {
			fam = &Family{Key: fk, Name: Label(p.Name)}
			families[fk] = fam
			types[fk] = map[string]*TypeNode{}
		}
		tk := Key(p.Type)
		tn, ok := types[fk][tk]
		if !ok {
			tn = &TypeNode{Key: tk, Name: Label(p.Type)}
			types[fk][tk] = tn
		}
		tn.Variants = append(tn.Variants, Variant{
			ProductID:        p.ID,
			Quality:          Label(p.Quality),
			ConversionFactor: p.ConversionFactor,
		})
	}

	tree := Tree{Families: make([]Family, 0, len(families))}
	for fk, fam := range families {
		for _, tn := range types[fk] {
			sort.SliceStable(tn.Variants, func(i, j int) bool {
				return Key(tn.Variants[i].Quality) < Key(tn.Variants[j].Quality)
			})
			fam.Types = append(fam.Types, *tn)
		}
		sort.Slice(fam.Types, func(i, j int) bool { return fam.Types[i].Key < fam.Types[j].Key })
		tree.Families = append(tree.Families, *fam)
	}
	sort.Slice(tree.Families, func(i, j int) bool { return tree.Families[i].Key < tree.Families[j].Key })
	return tree
}

// Family busca una familia por clave (o nombre, se normaliza).
func (t Tree) Family(name string) (Family, bool) {
	k := Key(name)
	for _, f := range t.Families {
		if f.Key == k {
			return f, true
		}
	}
	return Family{}, false
}

// Type busca un tipo dentro de la familia.
func (f Family) Type(name string) (TypeNode, bool) {
	k := Key(name)
	for _, tn := range f.Types {
		if tn.Key == k {
			return tn, true
		}
	}
	return TypeNode{}, false
}

// IdentityKey clave única de un producto: nombre, tipo y calidad normalizados.
func IdentityKey(name, typ, quality string) string {
	return Key(name) + "|" + Key(typ) + "|" + Key(quality)
}
