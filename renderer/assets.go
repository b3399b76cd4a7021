package renderer

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"blood-moon/scene"
)

// Assets is the CPU-side content of the scene. Nothing here touches the GPU.
type Assets struct {
	Models map[scene.ModelKey]*scene.Model
	Grass  *scene.Mesh    // nil when the grass texture is missing
	Sky    *scene.Cubemap // nil when the sky texture is missing

	// Missing lists the asset paths that failed to load.
	Missing []string
}

// fallback geometry for the light-source models
func fallbackModel(key scene.ModelKey) *scene.Model {
	switch key {
	case scene.ModelMoon:
		return scene.NewModel("moon (sphere)", scene.CreateSphere(1, 32, 16))
	case scene.ModelFirefly:
		return scene.NewModel("firefly (sphere)", scene.CreateSphere(0.05, 12, 6))
	}
	return nil
}

// LoadAssets loads every model, the grass billboard texture and the sky
// cubemap from root. A missing file is logged and skipped; the moon and the
// fireflies fall back to spheres.
func LoadAssets(root string, log zerolog.Logger) *Assets {
	a := &Assets{Models: make(map[scene.ModelKey]*scene.Model)}

	for _, key := range scene.RequiredModels() {
		path := filepath.Join(root, scene.ModelPaths[key])
		m, err := scene.LoadModel(path)
		if err != nil {
			a.Missing = append(a.Missing, path)
			if fb := fallbackModel(key); fb != nil {
				log.Warn().Err(err).Str("model", string(key)).Msg("using fallback sphere")
				a.Models[key] = fb
				continue
			}
			log.Warn().Err(err).Str("model", string(key)).Msg("model skipped")
			continue
		}
		meshes, tris := m.Stats()
		log.Debug().Str("model", string(key)).Int("meshes", meshes).Int("triangles", tris).Msg("model loaded")
		a.Models[key] = m
	}

	grassPath := filepath.Join(root, scene.GrassTexturePath)
	if tex, err := scene.LoadTexture(grassPath); err != nil {
		a.Missing = append(a.Missing, grassPath)
		log.Warn().Err(err).Msg("grass skipped")
	} else {
		a.Grass = scene.CreateGrassQuad(tex)
	}

	skyPath := filepath.Join(root, scene.SkyTexturePath)
	if cm, err := scene.LoadCubemap(scene.UniformCubemap(skyPath)); err != nil {
		a.Missing = append(a.Missing, skyPath)
		log.Warn().Err(err).Msg("skybox skipped")
	} else {
		a.Sky = cm
	}

	log.Info().Int("models", len(a.Models)).Int("missing", len(a.Missing)).Str("root", root).Msg("assets loaded")
	return a
}
