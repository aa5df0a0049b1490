// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gl is the thin OpenGL ES 3.0 / WebGL2 surface the gles engine
// drives. It defines typed object handles, the enum values the engine uses
// and the [Functions] interface implemented by the native binding
// (go-gl/gl, cgo) and the WebGL2 binding (syscall/js).
package gl

type (
	// Enum is a GLenum.
	Enum uint32
	// Attrib is a vertex attribute index.
	Attrib uint32

	Buffer       uint32
	Texture      uint32
	Renderbuffer uint32
	Framebuffer  uint32
	Sampler      uint32
	Shader       uint32
	Program      uint32
	VertexArray  uint32

	// Uniform is a uniform location; -1 means not found.
	Uniform int32
)

func (b Buffer) Valid() bool { return b != 0 }
func (t Texture) Valid() bool { return t != 0 }
func (r Renderbuffer) Valid() bool { return r != 0 }
func (f Framebuffer) Valid() bool { return f != 0 }
func (s Sampler) Valid() bool { return s != 0 }
func (s Shader) Valid() bool { return s != 0 }
func (p Program) Valid() bool { return p != 0 }
func (v VertexArray) Valid() bool { return v != 0 }
func (u Uniform) Valid() bool { return u >= 0 }

const (
	FALSE = 0
	TRUE  = 1
	NONE  = 0

	NO_ERROR                      = 0x0
	INVALID_ENUM                  = 0x0500
	INVALID_VALUE                 = 0x0501
	INVALID_OPERATION             = 0x0502
	OUT_OF_MEMORY                 = 0x0505
	INVALID_FRAMEBUFFER_OPERATION = 0x0506
	CONTEXT_LOST                  = 0x0507

	// Buffer targets and usage.
	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	UNIFORM_BUFFER       = 0x8A11
	COPY_READ_BUFFER     = 0x8F36
	COPY_WRITE_BUFFER    = 0x8F37
	STATIC_DRAW          = 0x88E4
	STREAM_DRAW          = 0x88E0
	DYNAMIC_DRAW         = 0x88E8
	DYNAMIC_READ         = 0x88E9

	MAP_READ_BIT              = 0x0001
	MAP_WRITE_BIT             = 0x0002
	MAP_INVALIDATE_RANGE_BIT  = 0x0004
	MAP_INVALIDATE_BUFFER_BIT = 0x0008
	MAP_FLUSH_EXPLICIT_BIT    = 0x0010
	MAP_UNSYNCHRONIZED_BIT    = 0x0020
	MAP_PERSISTENT_BIT_EXT    = 0x0040
	MAP_COHERENT_BIT_EXT      = 0x0080

	// Texture targets.
	TEXTURE_2D                  = 0x0DE1
	TEXTURE_3D                  = 0x806F
	TEXTURE_2D_ARRAY            = 0x8C1A
	TEXTURE_CUBE_MAP            = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X = 0x8515
	TEXTURE_2D_MULTISAMPLE      = 0x9100
	TEXTURE0                    = 0x84C0

	// Texture and sampler parameters.
	TEXTURE_MAG_FILTER             = 0x2800
	TEXTURE_MIN_FILTER             = 0x2801
	TEXTURE_WRAP_S                 = 0x2802
	TEXTURE_WRAP_T                 = 0x2803
	TEXTURE_WRAP_R                 = 0x8072
	TEXTURE_MIN_LOD                = 0x813A
	TEXTURE_MAX_LOD                = 0x813B
	TEXTURE_BASE_LEVEL             = 0x813C
	TEXTURE_MAX_LEVEL              = 0x813D
	TEXTURE_COMPARE_MODE           = 0x884C
	TEXTURE_COMPARE_FUNC           = 0x884D
	COMPARE_REF_TO_TEXTURE         = 0x884E
	TEXTURE_MAX_ANISOTROPY_EXT     = 0x84FE
	MAX_TEXTURE_MAX_ANISOTROPY_EXT = 0x84FF

	NEAREST                = 0x2600
	LINEAR                 = 0x2601
	NEAREST_MIPMAP_NEAREST = 0x2700
	LINEAR_MIPMAP_NEAREST  = 0x2701
	NEAREST_MIPMAP_LINEAR  = 0x2702
	LINEAR_MIPMAP_LINEAR   = 0x2703
	REPEAT                 = 0x2901
	CLAMP_TO_EDGE          = 0x812F
	MIRRORED_REPEAT        = 0x8370

	UNPACK_ROW_LENGTH   = 0x0CF2
	UNPACK_ALIGNMENT    = 0x0CF5
	UNPACK_IMAGE_HEIGHT = 0x806E

	// Framebuffers.
	FRAMEBUFFER              = 0x8D40
	READ_FRAMEBUFFER         = 0x8CA8
	DRAW_FRAMEBUFFER         = 0x8CA9
	RENDERBUFFER             = 0x8D41
	COLOR_ATTACHMENT0        = 0x8CE0
	DEPTH_ATTACHMENT         = 0x8D00
	STENCIL_ATTACHMENT       = 0x8D20
	DEPTH_STENCIL_ATTACHMENT = 0x821A
	FRAMEBUFFER_COMPLETE     = 0x8CD5
	COLOR                    = 0x1800
	DEPTH                    = 0x1801
	STENCIL                  = 0x1802
	BACK                     = 0x0405
	FRONT                    = 0x0404
	FRONT_AND_BACK           = 0x0408

	COLOR_BUFFER_BIT   = 0x4000
	DEPTH_BUFFER_BIT   = 0x0100
	STENCIL_BUFFER_BIT = 0x0400

	// Shaders.
	VERTEX_SHADER   = 0x8B31
	FRAGMENT_SHADER = 0x8B30
	COMPILE_STATUS  = 0x8B81
	LINK_STATUS     = 0x8B82
	INFO_LOG_LENGTH = 0x8B84
	INVALID_INDEX   = 0xFFFFFFFF

	// Capabilities.
	CULL_FACE                     = 0x0B44
	DEPTH_TEST                    = 0x0B71
	STENCIL_TEST                  = 0x0B90
	BLEND                         = 0x0BE2
	SCISSOR_TEST                  = 0x0C11
	POLYGON_OFFSET_FILL           = 0x8037
	SAMPLE_ALPHA_TO_COVERAGE      = 0x809E
	PRIMITIVE_RESTART_FIXED_INDEX = 0x8D69

	CW  = 0x0900
	CCW = 0x0901

	NEVER    = 0x0200
	LESS     = 0x0201
	EQUAL    = 0x0202
	LEQUAL   = 0x0203
	GREATER  = 0x0204
	NOTEQUAL = 0x0205
	GEQUAL   = 0x0206
	ALWAYS   = 0x0207

	KEEP      = 0x1E00
	ZERO      = 0x0
	REPLACE   = 0x1E01
	INCR      = 0x1E02
	DECR      = 0x1E03
	INVERT    = 0x150A
	INCR_WRAP = 0x8507
	DECR_WRAP = 0x8508

	ONE                      = 0x1
	SRC_COLOR                = 0x0300
	ONE_MINUS_SRC_COLOR      = 0x0301
	SRC_ALPHA                = 0x0302
	ONE_MINUS_SRC_ALPHA      = 0x0303
	DST_ALPHA                = 0x0304
	ONE_MINUS_DST_ALPHA      = 0x0305
	DST_COLOR                = 0x0306
	ONE_MINUS_DST_COLOR      = 0x0307
	SRC_ALPHA_SATURATE       = 0x0308
	CONSTANT_COLOR           = 0x8001
	ONE_MINUS_CONSTANT_COLOR = 0x8002

	FUNC_ADD              = 0x8006
	MIN                   = 0x8007
	MAX                   = 0x8008
	FUNC_SUBTRACT         = 0x800A
	FUNC_REVERSE_SUBTRACT = 0x800B

	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005

	// Data types.
	BYTE                           = 0x1400
	UNSIGNED_BYTE                  = 0x1401
	SHORT                          = 0x1402
	UNSIGNED_SHORT                 = 0x1403
	INT                            = 0x1404
	UNSIGNED_INT                   = 0x1405
	FLOAT                          = 0x1406
	HALF_FLOAT                     = 0x140B
	UNSIGNED_INT_2_10_10_10_REV    = 0x8368
	UNSIGNED_INT_24_8              = 0x84FA
	FLOAT_32_UNSIGNED_INT_24_8_REV = 0x8DAD

	// Pixel formats.
	RED             = 0x1903
	RG              = 0x8227
	RGB             = 0x1907
	RGBA            = 0x1908
	RED_INTEGER     = 0x8D94
	RG_INTEGER      = 0x8228
	RGBA_INTEGER    = 0x8D99
	DEPTH_COMPONENT = 0x1902
	DEPTH_STENCIL   = 0x84F9

	// Sized internal formats.
	R8                 = 0x8229
	R8_SNORM           = 0x8F94
	R8I                = 0x8231
	R8UI               = 0x8232
	R16I               = 0x8233
	R16UI              = 0x8234
	R16F               = 0x822D
	R32I               = 0x8235
	R32UI              = 0x8236
	R32F               = 0x822E
	RG8                = 0x822B
	RG8_SNORM          = 0x8F95
	RG8I               = 0x8237
	RG8UI              = 0x8238
	RG16F              = 0x822F
	RG32F              = 0x8230
	RG32UI             = 0x823C
	RGBA8              = 0x8058
	RGBA8_SNORM        = 0x8F97
	SRGB8_ALPHA8       = 0x8C43
	RGBA8I             = 0x8D8E
	RGBA8UI            = 0x8D7C
	RGBA16F            = 0x881A
	RGBA32F            = 0x8814
	RGBA32UI           = 0x8D70
	RGB10_A2           = 0x8059
	DEPTH_COMPONENT16  = 0x81A5
	DEPTH_COMPONENT24  = 0x81A6
	DEPTH_COMPONENT32F = 0x8CAC
	DEPTH24_STENCIL8   = 0x88F0
	DEPTH32F_STENCIL8  = 0x8CAD
	STENCIL_INDEX8     = 0x8D48

	// Compressed formats.
	COMPRESSED_RGBA_S3TC_DXT1_EXT            = 0x83F1
	COMPRESSED_RGBA_S3TC_DXT3_EXT            = 0x83F2
	COMPRESSED_RGBA_S3TC_DXT5_EXT            = 0x83F3
	COMPRESSED_SRGB_ALPHA_S3TC_DXT1_EXT      = 0x8C4D
	COMPRESSED_SRGB_ALPHA_S3TC_DXT3_EXT      = 0x8C4E
	COMPRESSED_SRGB_ALPHA_S3TC_DXT5_EXT      = 0x8C4F
	COMPRESSED_RED_RGTC1_EXT                 = 0x8DBB
	COMPRESSED_SIGNED_RED_RGTC1_EXT          = 0x8DBC
	COMPRESSED_RED_GREEN_RGTC2_EXT           = 0x8DBD
	COMPRESSED_SIGNED_RED_GREEN_RGTC2_EXT    = 0x8DBE
	COMPRESSED_RGBA_BPTC_UNORM_EXT           = 0x8E8C
	COMPRESSED_SRGB_ALPHA_BPTC_UNORM_EXT     = 0x8E8D
	COMPRESSED_R11_EAC                       = 0x9270
	COMPRESSED_RG11_EAC                      = 0x9272
	COMPRESSED_RGB8_ETC2                     = 0x9274
	COMPRESSED_SRGB8_ETC2                    = 0x9275
	COMPRESSED_RGB8_PUNCHTHROUGH_ALPHA1_ETC2 = 0x9276
	COMPRESSED_RGBA8_ETC2_EAC                = 0x9278
	COMPRESSED_SRGB8_ALPHA8_ETC2_EAC         = 0x9279
	COMPRESSED_RGBA_ASTC_4x4_KHR             = 0x93B0
	COMPRESSED_RGBA_ASTC_8x8_KHR             = 0x93B7
	COMPRESSED_SRGB8_ALPHA8_ASTC_4x4_KHR     = 0x93D0
	COMPRESSED_SRGB8_ALPHA8_ASTC_8x8_KHR     = 0x93D7

	// Queries.
	VENDOR                           = 0x1F00
	RENDERER                         = 0x1F01
	VERSION                          = 0x1F02
	EXTENSIONS                       = 0x1F03
	SHADING_LANGUAGE_VERSION         = 0x8B8C
	NUM_EXTENSIONS                   = 0x821D
	MAX_TEXTURE_SIZE                 = 0x0D33
	MAX_3D_TEXTURE_SIZE              = 0x8073
	MAX_ARRAY_TEXTURE_LAYERS         = 0x88FF
	MAX_CUBE_MAP_TEXTURE_SIZE        = 0x851C
	MAX_VERTEX_ATTRIBS               = 0x8869
	MAX_UNIFORM_BUFFER_BINDINGS      = 0x8A2F
	MAX_UNIFORM_BLOCK_SIZE           = 0x8A30
	UNIFORM_BUFFER_OFFSET_ALIGNMENT  = 0x8A34
	MAX_COMBINED_TEXTURE_IMAGE_UNITS = 0x8B4D
	MAX_TEXTURE_IMAGE_UNITS          = 0x8872
	MAX_COLOR_ATTACHMENTS            = 0x8CDF
	MAX_DRAW_BUFFERS                 = 0x8824
	MAX_SAMPLES                      = 0x8D57
	MAX_VERTEX_UNIFORM_BLOCKS        = 0x8A2B
	MAX_FRAGMENT_UNIFORM_BLOCKS      = 0x8A2D
	MAX_VERTEX_ATTRIB_STRIDE         = 0x82E5
	DEBUG_SEVERITY_HIGH              = 0x9146
	DEBUG_SEVERITY_MEDIUM            = 0x9147
	DEBUG_SEVERITY_LOW               = 0x9148
	DEBUG_SEVERITY_NOTIFICATION      = 0x826B
	DEBUG_TYPE_ERROR                 = 0x824C
)
