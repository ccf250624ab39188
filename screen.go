package main

import (
	"fmt"
	"image"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"nespump/emu/hwio"
	"nespump/emu/log"
)

const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// Columns are position and texture coordinates.
// Rows are the quad vertices in clockwise order.
var vertices = []float32{
	// x, y, z, s, t
	1.0, 1.0, 0, 1, 0, // top right
	1.0, -1.0, 0, 1, 1, // bottom right
	-1.0, -1.0, 0, 0, 1, // bottom left
	-1.0, 1.0, 0, 0, 0, // top left
}

var indices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

const fragmentShaderSource = `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;

uniform sampler2D ourTexture;

void main() {
    FragColor = texture(ourTexture, TexCoord);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(source)
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status); status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)

		glLog := make([]byte, logLength+1)
		gl.GetShaderInfoLog(sh, logLength, nil, &glLog[0])

		return 0, fmt.Errorf("shader compile error: %v", string(glLog))
	}

	return sh, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	prg := gl.CreateProgram()
	gl.AttachShader(prg, vertexShader)
	gl.AttachShader(prg, fragmentShader)
	gl.LinkProgram(prg)

	var status int32
	if gl.GetProgramiv(prg, gl.LINK_STATUS, &status); status == gl.FALSE {
		var logLength int32
		var glLog [256]byte
		gl.GetProgramInfoLog(prg, int32(len(glLog)), &logLength, &glLog[0])
		return 0, fmt.Errorf("shader program link error: %v", string(glLog[:logLength]))
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return prg, nil
}

type screen struct {
	win     *sdl.Window
	context sdl.GLContext
	prog    uint32
	texture uint32
	vao     uint32

	pads padScancodes
}

// padScancodes is the pad 1 key bindings resolved to SDL scancodes,
// indexed by button.
type padScancodes [8]sdl.Scancode

func resolveBindings(b PadBindings) (padScancodes, error) {
	names := [8]string{
		PadA: b.A, PadB: b.B,
		PadSelect: b.Select, PadStart: b.Start,
		PadUp: b.Up, PadDown: b.Down,
		PadLeft: b.Left, PadRight: b.Right,
	}
	var codes padScancodes
	for btn, name := range names {
		sc := sdl.GetScancodeFromName(name)
		if sc == sdl.SCANCODE_UNKNOWN {
			return codes, fmt.Errorf("unrecognized key name %q", name)
		}
		codes[btn] = sc
	}
	return codes, nil
}

func newScreen(title string, cfg Config) (*screen, error) {
	pads, err := resolveBindings(cfg.Input.Pad1)
	if err != nil {
		return nil, err
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %s", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	scale := cfg.Video.Scale
	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(ScreenWidth*scale), int32(ScreenHeight*scale),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %s", err)
	}

	context, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to create OpenGL context: %s", err)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to initialize opengl: %s", err)
	}

	swap := 1
	if cfg.Video.DisableVSync {
		swap = 0
	}
	if err := sdl.GLSetSwapInterval(swap); err != nil {
		log.ModEmu.WarnZ("failed to set swap interval").Error("err", err).End()
	}

	tbuf := make([]byte, ScreenWidth*ScreenHeight*4)
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, ScreenWidth, ScreenHeight, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&tbuf[0]))

	vert, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader compilation: %s", err)
	}
	frag, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader compilation: %s", err)
	}
	prog, err := linkProgram(vert, frag)
	if err != nil {
		return nil, fmt.Errorf("shader program link: %s", err)
	}

	var VBO, VAO, EBO uint32
	gl.GenVertexArrays(1, &VAO)
	gl.GenBuffers(1, &VBO)
	gl.GenBuffers(1, &EBO)

	gl.BindVertexArray(VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// Position attributes
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)

	// Texture coordinate attributes.
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return &screen{
		win:     win,
		context: context,
		prog:    prog,
		texture: texture,
		vao:     VAO,
		pads:    pads,
	}, nil
}

func (s *screen) Close() error {
	sdl.GLDeleteContext(s.context)
	err := s.win.Destroy()
	sdl.Quit()
	return err
}

func (s *screen) present(frame *image.RGBA) {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(s.prog)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, ScreenWidth, ScreenHeight,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&frame.Pix[0]))
	gl.BindVertexArray(s.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, 6, gl.UNSIGNED_INT, 0)

	s.win.GLSwap()
}

// pollPads samples the keyboard and packs the pad 1 button bitmap.
func (s *screen) pollPads() uint8 {
	keys := sdl.GetKeyboardState()

	var buttons uint8
	for btn, sc := range s.pads {
		if keys[sc] != 0 {
			buttons = hwio.SetBit(buttons, uint(btn))
		}
	}
	return buttons
}

// startScreen opens the emulator window and runs the video/input loop on
// the calling goroutine, which must be the main one. It returns when the
// window is closed.
func startScreen(nes *NES, cfg Config) error {
	runtime.LockOSThread()

	s, err := newScreen("nespump", cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	frames := make(chan *image.RGBA, 1)
	nes.FrameEnd(func(img *image.RGBA) {
		// Drop the frame if the video loop is late.
		select {
		case frames <- img:
		default:
		}
	})

	for {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if ev.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					return nil
				}
			}
		}

		nes.Pads.SetState(s.pollPads(), 0)

		select {
		case frame := <-frames:
			s.present(frame)
		default:
			sdl.Delay(1)
		}
	}
}
