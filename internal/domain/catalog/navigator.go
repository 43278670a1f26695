package catalog

// Step pantalla actual del selector.
type Step string

const (
	StepHome    Step = "HOME"
	StepType    Step = "TYPE"
	StepQuality Step = "QUALITY"
)

// ActionKind acciones que acepta el navegador.
type ActionKind string

const (
	ActionSelectFamily ActionKind = "SELECT_FAMILY"
	ActionSelectType   ActionKind = "SELECT_TYPE"
	ActionBack         ActionKind = "BACK"
	ActionReset        ActionKind = "RESET"
)

// Action evento del selector. Value es la familia o el tipo elegido.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

// NavState estado del selector. Family y Type guardan claves normalizadas.
type NavState struct {
	Step   Step   `json:"step"`
	Family string `json:"family,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Home estado inicial.
func Home() NavState { return NavState{Step: StepHome} }

// Navigate reductor puro: dado el árbol, el estado y una acción devuelve el nuevo estado.
// Si la familia elegida tiene un solo tipo se salta la pantalla TYPE.
// Acciones inválidas para el estado actual lo devuelven sin cambios.
func Navigate(tree Tree, s NavState, a Action) NavState {
	switch a.Kind {
	case ActionReset:
		return Home()

	case ActionSelectFamily:
		if s.Step != StepHome {
			return s
		}
		fam, ok := tree.Family(a.Value)
		if !ok || len(fam.Types) == 0 {
			return s
		}
		if len(fam.Types) == 1 {
			return NavState{Step: StepQuality, Family: fam.Key, Type: fam.Types[0].Key}
		}
		return NavState{Step: StepType, Family: fam.Key}

	case ActionSelectType:
		if s.Step != StepType {
			return s
		}
		fam, ok := tree.Family(s.Family)
		if !ok {
			return Home()
		}
		tn, ok := fam.Type(a.Value)
		if !ok {
			return s
		}
		return NavState{Step: StepQuality, Family: fam.Key, Type: tn.Key}

	case ActionBack:
		switch s.Step {
		case StepQuality:
			fam, ok := tree.Family(s.Family)
			if !ok || len(fam.Types) <= 1 {
				return Home()
			}
			return NavState{Step: StepType, Family: fam.Key}
		case StepType:
			return Home()
		}
		return s
	}
	return s
}

// Options lo que debe mostrarse en el paso actual: familias, tipos o variantes.
func Options(tree Tree, s NavState) (families []Family, types []TypeNode, variants []Variant) {
	switch s.Step {
	case StepType:
		if fam, ok := tree.Family(s.Family); ok {
			return nil, fam.Types, nil
		}
	case StepQuality:
		if fam, ok := tree.Family(s.Family); ok {
			if tn, ok := fam.Type(s.Type); ok {
				return nil, nil, tn.Variants
			}
		}
	default:
		return tree.Families, nil, nil
	}
	return nil, nil, nil
}
