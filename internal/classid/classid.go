package classid

import (
	"fmt"
	"strings"
)

// ID is the engine's numeric class code.
type ID int32

const (
	GameObject                 ID = 1
	Component                  ID = 2
	Transform                  ID = 4
	TimeManager                ID = 5
	Behaviour                  ID = 8
	AudioManager               ID = 11
	InputManager               ID = 13
	Camera                     ID = 20
	Material                   ID = 21
	MeshRenderer               ID = 23
	Renderer                   ID = 25
	Texture                    ID = 27
	Texture2D                  ID = 28
	OcclusionCullingSettings   ID = 29
	GraphicsSettings           ID = 30
	MeshFilter                 ID = 33
	Mesh                       ID = 43
	QualitySettings            ID = 47
	Shader                     ID = 48
	TextAsset                  ID = 49
	Rigidbody2D                ID = 50
	Rigidbody                  ID = 54
	PhysicsManager             ID = 55
	MeshCollider               ID = 64
	BoxCollider                ID = 65
	AnimationClip              ID = 74
	TagManager                 ID = 78
	AudioListener              ID = 81
	AudioSource                ID = 82
	AudioClip                  ID = 83
	RenderTexture              ID = 84
	Cubemap                    ID = 89
	Avatar                     ID = 90
	AnimatorController         ID = 91
	RuntimeAnimatorController  ID = 93
	Animator                   ID = 95
	TrailRenderer              ID = 96
	TextMesh                   ID = 102
	RenderSettings             ID = 104
	Light                      ID = 108
	Animation                  ID = 111
	MonoBehaviour              ID = 114
	MonoScript                 ID = 115
	Texture3D                  ID = 117
	LineRenderer               ID = 120
	Font                       ID = 128
	PlayerSettings             ID = 129
	PhysicMaterial             ID = 134
	SphereCollider             ID = 135
	CapsuleCollider            ID = 136
	SkinnedMeshRenderer        ID = 137
	BuildSettings              ID = 141
	AssetBundle                ID = 142
	CharacterController        ID = 143
	ResourceManager            ID = 147
	PreloadData                ID = 150
	MovieTexture               ID = 152
	LightmapSettings           ID = 157
	NavMeshSettings            ID = 196
	ParticleSystem             ID = 198
	ParticleSystemRenderer     ID = 199
	LODGroup                   ID = 205
	SpriteRenderer             ID = 212
	Sprite                     ID = 213
	Terrain                    ID = 218
	AnimatorOverrideController ID = 221
	CanvasRenderer             ID = 222
	Canvas                     ID = 223
	RectTransform              ID = 224
	CanvasGroup                ID = 225
	VideoPlayer                ID = 328
	VideoClip                  ID = 329
	PrefabInstance             ID = 1001
	SpriteAtlas                ID = 687078895
)

var names = map[ID]string{
	GameObject:                 "GameObject",
	Component:                  "Component",
	Transform:                  "Transform",
	TimeManager:                "TimeManager",
	Behaviour:                  "Behaviour",
	AudioManager:               "AudioManager",
	InputManager:               "InputManager",
	Camera:                     "Camera",
	Material:                   "Material",
	MeshRenderer:               "MeshRenderer",
	Renderer:                   "Renderer",
	Texture:                    "Texture",
	Texture2D:                  "Texture2D",
	OcclusionCullingSettings:   "OcclusionCullingSettings",
	GraphicsSettings:           "GraphicsSettings",
	MeshFilter:                 "MeshFilter",
	Mesh:                       "Mesh",
	QualitySettings:            "QualitySettings",
	Shader:                     "Shader",
	TextAsset:                  "TextAsset",
	Rigidbody2D:                "Rigidbody2D",
	Rigidbody:                  "Rigidbody",
	PhysicsManager:             "PhysicsManager",
	MeshCollider:               "MeshCollider",
	BoxCollider:                "BoxCollider",
	AnimationClip:              "AnimationClip",
	TagManager:                 "TagManager",
	AudioListener:              "AudioListener",
	AudioSource:                "AudioSource",
	AudioClip:                  "AudioClip",
	RenderTexture:              "RenderTexture",
	Cubemap:                    "Cubemap",
	Avatar:                     "Avatar",
	AnimatorController:         "AnimatorController",
	RuntimeAnimatorController:  "RuntimeAnimatorController",
	Animator:                   "Animator",
	TrailRenderer:              "TrailRenderer",
	TextMesh:                   "TextMesh",
	RenderSettings:             "RenderSettings",
	Light:                      "Light",
	Animation:                  "Animation",
	MonoBehaviour:              "MonoBehaviour",
	MonoScript:                 "MonoScript",
	Texture3D:                  "Texture3D",
	LineRenderer:               "LineRenderer",
	Font:                       "Font",
	PlayerSettings:             "PlayerSettings",
	PhysicMaterial:             "PhysicMaterial",
	SphereCollider:             "SphereCollider",
	CapsuleCollider:            "CapsuleCollider",
	SkinnedMeshRenderer:        "SkinnedMeshRenderer",
	BuildSettings:              "BuildSettings",
	AssetBundle:                "AssetBundle",
	CharacterController:        "CharacterController",
	ResourceManager:            "ResourceManager",
	PreloadData:                "PreloadData",
	MovieTexture:               "MovieTexture",
	LightmapSettings:           "LightmapSettings",
	NavMeshSettings:            "NavMeshSettings",
	ParticleSystem:             "ParticleSystem",
	ParticleSystemRenderer:     "ParticleSystemRenderer",
	LODGroup:                   "LODGroup",
	SpriteRenderer:             "SpriteRenderer",
	Sprite:                     "Sprite",
	Terrain:                    "Terrain",
	AnimatorOverrideController: "AnimatorOverrideController",
	CanvasRenderer:             "CanvasRenderer",
	Canvas:                     "Canvas",
	RectTransform:              "RectTransform",
	CanvasGroup:                "CanvasGroup",
	VideoPlayer:                "VideoPlayer",
	VideoClip:                  "VideoClip",
	PrefabInstance:             "PrefabInstance",
	SpriteAtlas:                "SpriteAtlas",
}

// String returns the class name, or "Class<N>" for codes not in the table.
func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("Class%d", int32(id))
}

// Known reports whether the code has a name in the table.
func (id ID) Known() bool {
	_, ok := names[id]
	return ok
}

// Lookup finds a class by name, case-insensitively.
func Lookup(name string) (ID, bool) {
	for id, n := range names {
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return 0, false
}

// IsTransform reports classes that carry a scene parent/child relation.
func (id ID) IsTransform() bool {
	return id == Transform || id == RectTransform
}
