package object

import (
	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/mathutil"
)

// typed builds the variant for a class from its decoded fields.
// Classes missing from the table fall back to Generic.
var typed = map[classid.ID]func(*Struct) Variant{
	classid.GameObject:     gameObjectOf,
	classid.Transform:      func(s *Struct) Variant { t := transformOf(s); return &t },
	classid.RectTransform:  rectTransformOf,
	classid.Texture2D:      texture2DOf,
	classid.Mesh:           meshOf,
	classid.MeshFilter:     meshFilterOf,
	classid.TextAsset:      textAssetOf,
	classid.AudioClip:      audioClipOf,
	classid.MonoScript:     monoScriptOf,
	classid.PlayerSettings: playerSettingsOf,
	classid.BuildSettings:  buildSettingsOf,
	classid.AssetBundle:    assetBundleOf,
}

func ptrOf(s *Struct, name string) PPtr {
	p, _ := s.PPtr(name)
	return p
}

// ptrs collects pointers from an array field. Elements may be pointers or
// records holding one (component pairs); the last pointer in a record wins.
func ptrs(s *Struct, name string) []PPtr {
	var out []PPtr
	for _, e := range s.List(name) {
		switch x := e.(type) {
		case PPtr:
			out = append(out, x)
		case *Struct:
			var found PPtr
			ok := false
			for _, v := range x.Values {
				if p, isPtr := v.(PPtr); isPtr {
					found, ok = p, true
				}
			}
			if ok {
				out = append(out, found)
			}
		}
	}
	return out
}

func vec3Of(s *Struct) mathutil.Vec3 {
	return mathutil.Vec3{s.Float("x"), s.Float("y"), s.Float("z")}
}

func vec2Of(s *Struct) [2]float32 {
	return [2]float32{float32(s.Float("x")), float32(s.Float("y"))}
}

func quatOf(s *Struct) mathutil.Quat {
	if s == nil {
		return mathutil.Quat{0, 0, 0, 1}
	}
	return mathutil.Quat{s.Float("x"), s.Float("y"), s.Float("z"), s.Float("w")}
}

func streamOf(s *Struct) StreamRef {
	if s == nil {
		return StreamRef{}
	}
	return StreamRef{Path: s.Str("path"), Offset: uint64(s.Int("offset")), Size: uint64(s.Int("size"))}
}

func gameObjectOf(s *Struct) Variant {
	return &GameObject{
		Label:      s.Str("m_Name"),
		Layer:      uint32(s.Int("m_Layer")),
		Tag:        uint16(s.Int("m_Tag")),
		Active:     s.Bool("m_IsActive"),
		Components: ptrs(s, "m_Component"),
	}
}

func transformOf(s *Struct) Transform {
	t := Transform{
		GameObject:    ptrOf(s, "m_GameObject"),
		LocalRotation: quatOf(s.Struct("m_LocalRotation")),
		LocalScale:    mathutil.Vec3{1, 1, 1},
		Children:      ptrs(s, "m_Children"),
		Father:        ptrOf(s, "m_Father"),
	}
	if p := s.Struct("m_LocalPosition"); p != nil {
		t.LocalPosition = vec3Of(p)
	}
	if sc := s.Struct("m_LocalScale"); sc != nil {
		t.LocalScale = vec3Of(sc)
	}
	return t
}

func rectTransformOf(s *Struct) Variant {
	r := &RectTransform{Transform: transformOf(s)}
	if v := s.Struct("m_AnchorMin"); v != nil {
		r.AnchorMin = vec2Of(v)
	}
	if v := s.Struct("m_AnchorMax"); v != nil {
		r.AnchorMax = vec2Of(v)
	}
	if v := s.Struct("m_AnchoredPosition"); v != nil {
		r.AnchoredPosition = vec2Of(v)
	}
	if v := s.Struct("m_SizeDelta"); v != nil {
		r.SizeDelta = vec2Of(v)
	}
	if v := s.Struct("m_Pivot"); v != nil {
		r.Pivot = vec2Of(v)
	}
	return r
}

func texture2DOf(s *Struct) Variant {
	t := &Texture2D{
		Label:     s.Str("m_Name"),
		Width:     int32(s.Int("m_Width")),
		Height:    int32(s.Int("m_Height")),
		Format:    int32(s.Int("m_TextureFormat")),
		MipCount:  int32(s.Int("m_MipCount")),
		ImageData: s.Bytes("image data"),
		Stream:    streamOf(s.Struct("m_StreamData")),
	}
	if _, ok := s.Get("m_MipCount"); !ok && s.Bool("m_MipMap") {
		t.MipCount = 2
	} else if !ok {
		t.MipCount = 1
	}
	return t
}

func meshOf(s *Struct) Variant {
	m := &Mesh{
		Label:       s.Str("m_Name"),
		IndexFormat: int32(s.Int("m_IndexFormat")),
		IndexBuffer: s.Bytes("m_IndexBuffer"),
		Stream:      streamOf(s.Struct("m_StreamData")),
	}
	for _, e := range s.List("m_SubMeshes") {
		sm, ok := e.(*Struct)
		if !ok {
			continue
		}
		m.SubMeshes = append(m.SubMeshes, SubMesh{
			FirstByte:   uint32(sm.Int("firstByte")),
			IndexCount:  uint32(sm.Int("indexCount")),
			Topology:    int32(sm.Int("topology")),
			BaseVertex:  uint32(sm.Int("baseVertex")),
			FirstVertex: uint32(sm.Int("firstVertex")),
			VertexCount: uint32(sm.Int("vertexCount")),
		})
	}
	if vd := s.Struct("m_VertexData"); vd != nil {
		m.VertexCount = uint32(vd.Int("m_VertexCount"))
		m.VertexData = vd.Bytes("m_DataSize")
		for _, e := range vd.List("m_Channels") {
			ch, ok := e.(*Struct)
			if !ok {
				continue
			}
			m.Channels = append(m.Channels, Channel{
				Stream:    uint8(ch.Int("stream")),
				Offset:    uint8(ch.Int("offset")),
				Format:    uint8(ch.Int("format")),
				Dimension: uint8(ch.Int("dimension")),
			})
		}
	}
	return m
}

func meshFilterOf(s *Struct) Variant {
	return &MeshFilter{GameObject: ptrOf(s, "m_GameObject"), Mesh: ptrOf(s, "m_Mesh")}
}

func textAssetOf(s *Struct) Variant {
	return &TextAsset{Label: s.Str("m_Name"), Script: s.Bytes("m_Script")}
}

func audioClipOf(s *Struct) Variant {
	a := &AudioClip{
		Label:             s.Str("m_Name"),
		Channels:          int32(s.Int("m_Channels")),
		Frequency:         int32(s.Int("m_Frequency")),
		BitsPerSample:     int32(s.Int("m_BitsPerSample")),
		Length:            float32(s.Float("m_Length")),
		CompressionFormat: int32(s.Int("m_CompressionFormat")),
	}
	if r := s.Struct("m_Resource"); r != nil {
		a.Resource = StreamRef{
			Path:   r.Str("m_Source"),
			Offset: uint64(r.Int("m_Offset")),
			Size:   uint64(r.Int("m_Size")),
		}
	}
	return a
}

func monoScriptOf(s *Struct) Variant {
	return &MonoScript{
		Label:     s.Str("m_Name"),
		ClassName: s.Str("m_ClassName"),
		Namespace: s.Str("m_Namespace"),
		Assembly:  s.Str("m_AssemblyName"),
	}
}

func playerSettingsOf(s *Struct) Variant {
	return &PlayerSettings{CompanyName: s.Str("companyName"), ProductName: s.Str("productName")}
}

func buildSettingsOf(s *Struct) Variant {
	b := &BuildSettings{Version: s.Str("m_Version")}
	for _, e := range s.List("scenes") {
		if name, ok := e.(string); ok {
			b.Scenes = append(b.Scenes, name)
		}
	}
	return b
}

func assetBundleOf(s *Struct) Variant {
	a := &AssetBundle{Label: s.Str("m_Name"), Preload: ptrs(s, "m_PreloadTable")}
	for _, e := range s.List("m_Container") {
		pair, ok := e.(*Struct)
		if !ok {
			continue
		}
		a.Container = append(a.Container, BundleEntry{
			Path:  pair.Str("first"),
			Asset: ptrOf(pair.Struct("second"), "asset"),
		})
	}
	if main := s.Struct("m_MainAsset"); main != nil {
		a.MainAsset = ptrOf(main, "asset")
	}
	return a
}
