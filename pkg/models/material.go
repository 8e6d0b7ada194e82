package models

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// appearance resolves the material a primitive references. Primitives
// without a material get the default appearance.
func (s *Scene) appearance(idx *int) render.Appearance {
	app := render.DefaultAppearance()
	if idx == nil || *idx < 0 || *idx >= len(s.doc.Materials) {
		return app
	}
	m := s.doc.Materials[*idx]

	// glTF base color defaults to opaque white
	app.Material.Diffuse = math3d.One3()
	app.Material.Emissive = math3d.V3(m.EmissiveFactor[0], m.EmissiveFactor[1], m.EmissiveFactor[2])

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			app.Material.Diffuse = math3d.V3(f[0], f[1], f[2])
			app.Material.Transparency = 1 - f[3]
		}
		if t := pbr.BaseColorTexture; t != nil {
			app.Texture = s.texture(t.Index)
		}
	}
	return app
}

// texture returns the sampler for texture idx, decoding its image on first
// use. A texture that cannot be decoded is logged once and yields nil, so
// the primitive falls back to its material color.
func (s *Scene) texture(idx int) render.TextureSampler {
	if t, ok := s.textures[idx]; ok {
		return t
	}
	var sampler render.TextureSampler
	tex, err := s.loadTexture(idx)
	if err != nil {
		render.Logger().Debug("texture unavailable",
			slog.Int("texture", idx),
			slog.String("error", err.Error()),
		)
	} else {
		sampler = tex
	}
	s.textures[idx] = sampler
	return sampler
}

func (s *Scene) loadTexture(idx int) (*render.Texture, error) {
	if idx < 0 || idx >= len(s.doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", idx)
	}
	src := s.doc.Textures[idx].Source
	if src == nil || *src < 0 || *src >= len(s.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}

	data, err := s.imageData(s.doc.Images[*src])
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %d: %w", *src, err)
	}

	tex := render.TextureFromImage(img)
	tex.FilterMode = render.FilterBilinear
	return tex, nil
}

// imageData returns the encoded bytes of img, which may live in a buffer
// view, a data URI or a file next to the document.
func (s *Scene) imageData(img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		data, _, err := viewData(s.doc, *img.BufferView)
		return data, err
	case strings.HasPrefix(img.URI, "data:"):
		_, payload, ok := strings.Cut(img.URI, ";base64,")
		if !ok {
			return nil, fmt.Errorf("unsupported data URI")
		}
		return base64.StdEncoding.DecodeString(payload)
	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(img.URI)))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("image has no data")
}
