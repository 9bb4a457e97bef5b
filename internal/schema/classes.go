package schema

import "unity-asset-reader/internal/classid"

// Static layouts for player builds (no editor-only prefix fields). Each
// threshold records the release that changed the serialized layout.

func gameObject() *Schema {
	return &Schema{Class: classid.GameObject, Blocks: []Block{
		OneOf(
			When(since(5, 5, 0),
				Array("m_Component", Struct("", "ComponentPair", PPtr("component", "Component")))),
			Otherwise(
				Array("m_Component", Struct("", "pair", I32("first"), PPtr("second", "Component")))),
		),
		All(
			U32("m_Layer"),
			Str("m_Name"),
			U16("m_Tag"),
			Bool("m_IsActive").Aligned(),
		),
	}}
}

func transformBlocks() []Block {
	return []Block{
		All(PPtr("m_GameObject", "GameObject"), Quat("m_LocalRotation")),
		OneOf(
			When(since(5, 4, 0), Vec3("m_LocalPosition"), Vec3("m_LocalScale")),
			Otherwise(Vec4("m_LocalPosition"), Vec4("m_LocalScale")),
		),
		All(
			Array("m_Children", PPtr("", "Transform")),
			PPtr("m_Father", "Transform"),
		),
	}
}

func transform() *Schema {
	return &Schema{Class: classid.Transform, Blocks: transformBlocks()}
}

func rectTransform() *Schema {
	blocks := append(transformBlocks(), All(
		Vec2("m_AnchorMin"),
		Vec2("m_AnchorMax"),
		Vec2("m_AnchoredPosition"),
		Vec2("m_SizeDelta"),
		Vec2("m_Pivot"),
	))
	return &Schema{Class: classid.RectTransform, Blocks: blocks}
}

func meshFilter() *Schema {
	return &Schema{Class: classid.MeshFilter, Blocks: []Block{
		All(PPtr("m_GameObject", "GameObject"), PPtr("m_Mesh", "Mesh")),
	}}
}

func material() *Schema {
	return &Schema{Class: classid.Material, Blocks: []Block{
		All(Str("m_Name"), PPtr("m_Shader", "Shader")),
	}}
}

func textAsset() *Schema {
	return &Schema{Class: classid.TextAsset, Blocks: []Block{
		All(Str("m_Name"), Blob("m_Script")),
		When(before(2017, 1, 0), Str("m_PathName")),
	}}
}

func monoScript() *Schema {
	return &Schema{Class: classid.MonoScript, Blocks: []Block{
		All(Str("m_Name")),
		When(since(3, 4, 0), I32("m_ExecutionOrder")),
		OneOf(
			When(since(5, 0, 0), Bytes16("m_PropertiesHash")),
			Otherwise(U32("m_PropertiesHash")),
		),
		When(before(3, 0, 0), Str("m_PathName")),
		All(Str("m_ClassName")),
		When(since(3, 0, 0), Str("m_Namespace")),
		All(Str("m_AssemblyName")),
		When(before(2018, 2, 0), Bool("m_IsEditorScript").Aligned()),
	}}
}

func texture2D() *Schema {
	return &Schema{Class: classid.Texture2D, Blocks: []Block{
		All(Str("m_Name")),
		When(since(2017, 3, 0), I32("m_ForcedFallbackFormat"), Bool("m_DownscaleFallback")),
		When(since(2020, 2, 0), Bool("m_IsAlphaChannelOptional")),
		When(since(2017, 3, 0), AlignMark()),
		All(I32("m_Width"), I32("m_Height"), I32("m_CompleteImageSize")),
		When(since(2020, 1, 0), I32("m_MipsStripped")),
		All(I32("m_TextureFormat")),
		OneOf(
			When(since(5, 2, 0), I32("m_MipCount")),
			Otherwise(Bool("m_MipMap")),
		),
		When(since(2, 6, 0), Bool("m_IsReadable")),
		When(since(2020, 1, 0), Bool("m_IsPreProcessed")),
		When(since(2019, 3, 0), Bool("m_IgnoreMasterTextureLimit")),
		When(between(v(3, 0, 0), v(5, 5, 0)), Bool("m_ReadAllowed")),
		When(since(2018, 2, 0), Bool("m_StreamingMipmaps")),
		All(AlignMark()),
		When(since(2018, 2, 0), I32("m_StreamingMipmapsPriority")),
		All(I32("m_ImageCount"), I32("m_TextureDimension")),
		All(StructOf("m_TextureSettings", "GLTextureSettings",
			All(I32("m_FilterMode"), I32("m_Aniso"), F32("m_MipBias")),
			OneOf(
				When(since(2017, 0, 0), I32("m_WrapU"), I32("m_WrapV"), I32("m_WrapW")),
				Otherwise(I32("m_WrapMode")),
			),
		)),
		When(since(3, 0, 0), I32("m_LightmapFormat")),
		When(since(3, 5, 0), I32("m_ColorSpace")),
		When(since(2020, 2, 0), Blob("m_PlatformBlob")),
		All(Blob("image data")),
		When(since(5, 3, 0), StreamingInfo("m_StreamData")),
	}}
}

func packedFloats(name string) Field {
	return Struct(name, "PackedBitVector",
		U32("m_NumItems"), F32("m_Range"), F32("m_Start"), Blob("m_Data"), U8("m_BitSize").Aligned())
}

func packedInts(name string) Field {
	return Struct(name, "PackedBitVector", U32("m_NumItems"), Blob("m_Data"), U8("m_BitSize").Aligned())
}

// mesh covers 5.0 and later; older layouts stop after the name.
func mesh() *Schema {
	subMesh := StructOf("", "SubMesh",
		All(U32("firstByte"), U32("indexCount"), I32("topology")),
		When(since(2017, 3, 0), U32("baseVertex")),
		All(U32("firstVertex"), U32("vertexCount"), AABB("localAABB")),
	)
	blendShapes := Struct("m_Shapes", "BlendShapeData",
		Array("vertices", Struct("", "BlendShapeVertex", Vec3("vertex"), Vec3("normal"), Vec3("tangent"), U32("index"))),
		Array("shapes", Struct("", "MeshBlendShape",
			U32("firstVertex"), U32("vertexCount"), Bool("hasNormals"), Bool("hasTangents").Aligned())),
		Array("channels", Struct("", "MeshBlendShapeChannel",
			Str("name"), U32("nameHash"), I32("frameIndex"), I32("frameCount"))),
		Array("fullWeights", F32("")),
	)
	channel := Struct("", "ChannelInfo", U8("stream"), U8("offset"), U8("format"), U8("dimension"))
	vertexData := StructOf("m_VertexData", "VertexData",
		When(before(2018, 0, 0), U32("m_CurrentChannels")),
		All(U32("m_VertexCount"), Array("m_Channels", channel), Blob("m_DataSize")),
	)
	compressed := StructOf("m_CompressedMesh", "CompressedMesh",
		All(
			packedFloats("m_Vertices"),
			packedFloats("m_UV"),
			packedFloats("m_Normals"),
			packedFloats("m_Tangents"),
			packedInts("m_Weights"),
			packedInts("m_NormalSigns"),
			packedInts("m_TangentSigns"),
			packedFloats("m_FloatColors"),
			packedInts("m_BoneIndices"),
			packedInts("m_Triangles"),
			U32("m_UVInfo"),
		),
	)
	boneWeights := Struct("", "BoneWeights4",
		F32("weight0"), F32("weight1"), F32("weight2"), F32("weight3"),
		I32("boneIndex0"), I32("boneIndex1"), I32("boneIndex2"), I32("boneIndex3"))

	return &Schema{Class: classid.Mesh, Blocks: []Block{
		All(Str("m_Name")),
		OneOf(When(since(5, 0, 0),
			Array("m_SubMeshes", subMesh),
			blendShapes,
			Array("m_BindPose", Matrix("")),
			Array("m_BoneNameHashes", U32("")),
			U32("m_RootBoneNameHash"),
		)),
		When(since(2019, 0, 0),
			Array("m_BonesAABB", Struct("", "MinMaxAABB", Vec3("m_Min"), Vec3("m_Max"))),
			Array("m_VariableBoneCountWeights", U32("")),
		),
		All(U8("m_MeshCompression"), Bool("m_IsReadable"), Bool("m_KeepVertices"), Bool("m_KeepIndices").Aligned()),
		When(since(2017, 4, 0), I32("m_IndexFormat")),
		All(Blob("m_IndexBuffer")),
		When(before(2018, 2, 0), Array("m_Skin", boneWeights)),
		All(vertexData, compressed, AABB("m_LocalAABB"), I32("m_MeshUsageFlags")),
		All(Blob("m_BakedConvexCollisionMesh"), Blob("m_BakedTriangleCollisionMesh")),
		When(since(2018, 2, 0), F32("m_MeshMetrics[0]"), F32("m_MeshMetrics[1]")),
		When(since(2018, 3, 0), AlignMark(), StreamingInfo("m_StreamData")),
	}}
}

func audioClip() *Schema {
	return &Schema{Class: classid.AudioClip, Blocks: []Block{
		All(Str("m_Name")),
		OneOf(When(since(5, 0, 0),
			I32("m_LoadType"),
			I32("m_Channels"),
			I32("m_Frequency"),
			I32("m_BitsPerSample"),
			F32("m_Length"),
			Bool("m_IsTrackerFormat").Aligned(),
			I32("m_SubsoundIndex"),
			Bool("m_PreloadAudioData"),
			Bool("m_LoadInBackground"),
			Bool("m_Legacy3D").Aligned(),
			Struct("m_Resource", "StreamedResource", Str("m_Source"), U64("m_Offset"), U64("m_Size")),
			I32("m_CompressionFormat"),
		)),
	}}
}

func playerSettings() *Schema {
	return &Schema{Class: classid.PlayerSettings, Blocks: []Block{
		When(since(5, 4, 0), Bytes16("productGUID")),
		All(Bool("AndroidProfiler").Aligned(), I32("defaultScreenOrientation"), I32("targetDevice")),
		When(before(5, 0, 0), I32("targetPlatform")),
		When(between(v(4, 6, 0), v(5, 0, 0)), I32("targetIOSGraphics")),
		When(before(5, 3, 0), I32("targetResolution")),
		When(since(5, 3, 0), Bool("useOnDemandResources").Aligned()),
		When(since(3, 5, 0), I32("accelerometerFrequency")),
		All(Str("companyName"), Str("productName")),
	}}
}

func buildSettings() *Schema {
	return &Schema{Class: classid.BuildSettings, Blocks: []Block{
		All(
			Array("scenes", Str("")),
			Bool("hasRenderTexture"),
			Bool("hasPROVersion"),
			Bool("hasPublishingRights"),
			Bool("hasShadows"),
			Str("m_Version"),
		),
	}}
}

func assetBundle() *Schema {
	assetInfo := func(name string) Field {
		return Struct(name, "AssetInfo", I32("preloadIndex"), I32("preloadSize"), PPtr("asset", "Object"))
	}
	return &Schema{Class: classid.AssetBundle, Blocks: []Block{
		All(
			Str("m_Name"),
			Array("m_PreloadTable", PPtr("", "Object")),
			Array("m_Container", Struct("", "pair", Str("first"), assetInfo("second"))),
			assetInfo("m_MainAsset"),
		),
	}}
}

func builtins() []*Schema {
	list := []*Schema{
		gameObject(),
		transform(),
		rectTransform(),
		meshFilter(),
		material(),
		textAsset(),
		monoScript(),
		texture2D(),
		mesh(),
		audioClip(),
		playerSettings(),
		buildSettings(),
		assetBundle(),
	}
	for _, s := range list {
		s.Name = s.Class.String()
		s.Source = Static
	}
	return list
}
