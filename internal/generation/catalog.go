package generation

import "strings"

// MockPrefix marks models that are simulated locally.
const MockPrefix = "mock-"

// IsMockModel reports whether id is a simulated model.
func IsMockModel(id string) bool { return strings.HasPrefix(id, MockPrefix) }

// Model is a selectable generation model.
type Model struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Preview     string  `json:"img"`
	Cost        float64 `json:"cost"`
	Mock        bool    `json:"mock"`
}

// Catalog lists models per kind. The first model of each kind is its default.
type Catalog struct {
	models map[Kind][]Model
}

func model(id, name, desc, preview string, cost float64) Model {
	return Model{ID: id, Name: name, Description: desc, Preview: preview, Cost: cost, Mock: IsMockModel(id)}
}

// DefaultCatalog returns the models offered on the generation view.
func DefaultCatalog() *Catalog {
	const img = "https://images.unsplash.com/"
	return &Catalog{models: map[Kind][]Model{
		KindVideo: {
			model("veo-3.1-fast-generate-preview", "Veo 3.1 Fast", "Fast generation", img+"photo-1618005182384-a83a8bd57fbe?w=400&q=80", 0.10),
			model("veo-3.1-generate-preview", "Veo 3.1 Pro", "Cinematic HD", img+"photo-1550745165-9bc0b252726f?w=400&q=80", 0.25),
			model("mock-sora", "Sora-v1", "Realism (Mock)", img+"photo-1535016120720-40c6874c3b13?w=400&q=80", 0.50),
			model("mock-gen3", "Gen-3 Alpha", "Creative motion (Mock)", img+"photo-1616499370260-485b3e5ed653?w=400&q=80", 0.40),
			model("mock-kling", "Kling AI", "High dynamics (Mock)", img+"photo-1605218427306-633ba87c9759?w=400&q=80", 0.35),
			model("mock-luma", "Luma Dream", "3D animation (Mock)", img+"photo-1614728263952-84ea256f9679?w=400&q=80", 0.20),
		},
		KindImage: {
			model("imagen-4.0-generate-001", "Imagen 4", "High detail", img+"photo-1579783902614-a3fb3927b6a5?w=400&q=80", 0.04),
			model("gemini-2.5-flash-image", "Gemini 2.5 Flash", "Speed and creativity", img+"photo-1620641788421-7a1c342ea42e?w=400&q=80", 0.01),
			model("gemini-3-pro-image-preview", "Gemini 3 Pro", "Maximum quality", img+"photo-1563089145-599997674d42?w=400&q=80", 0.08),
			model("mock-midjourney", "Midjourney v6", "Art style (Mock)", img+"photo-1549490349-8643362247b5?w=400&q=80", 0.06),
			model("mock-flux", "Flux Pro", "Photorealism (Mock)", img+"photo-1550684848-fac1c5b4e853?w=400&q=80", 0.03),
			model("mock-sd3", "Stable Diffusion 3", "Control (Mock)", img+"photo-1617791160505-6f00504e3519?w=400&q=80", 0.02),
		},
		KindPlayable: {
			model("gemini-2.5-flash", "Gemini 2.5 Flash", "Best for code", img+"photo-1555066931-4365d14bab8c?w=400&q=80", 0.005),
			model("gemini-3-pro-preview", "Gemini 3 Pro", "Complex logic", img+"photo-1518770660439-4636190af475?w=400&q=80", 0.02),
			model("mock-gpt4o", "GPT-4o", "Coding (Mock)", img+"photo-1526374965328-7f61d4dc18c5?w=400&q=80", 0.03),
			model("mock-claude", "Claude 3.5 Sonnet", "Clean code (Mock)", img+"photo-1531297461136-82lw9z1w9s?w=400&q=80", 0.03),
			model("mock-deepseek", "DeepSeek V3", "Budget (Mock)", img+"photo-1550751827-4bd374c3f58b?w=400&q=80", 0.001),
			model("mock-qwen", "Qwen 2.5", "Math (Mock)", img+"photo-1517694712202-14dd9538aa97?w=400&q=80", 0.002),
		},
	}}
}

// Models returns the models of kind, default first.
func (c *Catalog) Models(kind Kind) []Model {
	return append([]Model(nil), c.models[kind]...)
}

// Default returns the model preselected for kind.
func (c *Catalog) Default(kind Kind) (Model, bool) {
	list := c.models[kind]
	if len(list) == 0 {
		return Model{}, false
	}
	return list[0], true
}

// Lookup finds model id within kind. An empty id selects the default.
func (c *Catalog) Lookup(kind Kind, id string) (Model, bool) {
	if id == "" {
		return c.Default(kind)
	}
	for _, m := range c.models[kind] {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
