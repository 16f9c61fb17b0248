package librender

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type CubeFace int

// Cube map face reference: https://www.khronos.org/opengl/wiki_opengl/images/CubeMapAxes.png
const (
	CubeFacePositiveX = CubeFace(iota)
	CubeFaceNegativeX
	CubeFacePositiveY
	CubeFaceNegativeY
	CubeFacePositiveZ
	CubeFaceNegativeZ
)

// CubeFaces lists the faces in storage and manifest order.
var CubeFaces = [6]CubeFace{
	CubeFacePositiveX,
	CubeFaceNegativeX,
	CubeFacePositiveY,
	CubeFaceNegativeY,
	CubeFacePositiveZ,
	CubeFaceNegativeZ,
}

var cubeFaceSuffix = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

var cubeFaceLook = [6]mgl32.Vec3{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
}

var cubeFaceUp = [6]mgl32.Vec3{
	{0, -1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
	{0, -1, 0},
	{0, -1, 0},
}

func (face CubeFace) String() string {
	if face < 0 || int(face) >= len(cubeFaceSuffix) {
		return "??"
	}
	return cubeFaceSuffix[face]
}

// View returns the view transform of a camera at the origin looking down the face axis.
func (face CubeFace) View() mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{}, cubeFaceLook[face], cubeFaceUp[face])
}

// CaptureProjection is the 90° square projection used to render cube faces.
func CaptureProjection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90.0), 1.0, 0.1, 10.0)
}

// CubeFaceUV maps a direction to a face and normalized texture coordinates.
//
// Based on: https://www.gamedev.net/forums/topic/687535-implementing-a-cube-map-lookup-function/5337472/
func CubeFaceUV(dir mgl32.Vec3) (face CubeFace, u, v float32) {
	rx, ry, rz := dir[0], dir[1], dir[2]
	ax := math32.Abs(rx)
	ay := math32.Abs(ry)
	az := math32.Abs(rz)
	if ax == 0 && ay == 0 && az == 0 {
		return CubeFacePositiveX, 0.5, 0.5
	}

	// this normalizes the uvs
	var uvfac float32

	if ax >= ay && ax >= az {
		if rx >= 0 {
			face = CubeFacePositiveX
			u = -rz
		} else {
			face = CubeFaceNegativeX
			u = rz
		}
		uvfac = 0.5 / ax
		v = -ry
	} else if ay >= ax && ay >= az {
		if ry >= 0 {
			face = CubeFacePositiveY
			v = rz
		} else {
			face = CubeFaceNegativeY
			v = -rz
		}
		uvfac = 0.5 / ay
		u = rx
	} else {
		if rz >= 0 {
			face = CubeFacePositiveZ
			u = rx
		} else {
			face = CubeFaceNegativeZ
			u = -rx
		}
		uvfac = 0.5 / az
		v = -ry
	}

	u = u*uvfac + 0.5
	v = v*uvfac + 0.5

	return
}

// CubeTexelDirection returns the unnormalized direction through the center of texel (x, y)
// of a face with the given edge length. It is the inverse of CubeFaceUV.
func CubeTexelDirection(face CubeFace, x, y, size int) mgl32.Vec3 {
	// (2x+1)/r - 1 is the center of the pixel in [-1, 1]
	s := (2.0*float32(x)+1.0)/float32(size) - 1.0
	t := (2.0*float32(y)+1.0)/float32(size) - 1.0

	switch face {
	case CubeFacePositiveX:
		return mgl32.Vec3{1, -t, -s}
	case CubeFaceNegativeX:
		return mgl32.Vec3{-1, -t, s}
	case CubeFacePositiveY:
		return mgl32.Vec3{s, 1, t}
	case CubeFaceNegativeY:
		return mgl32.Vec3{s, -1, -t}
	case CubeFacePositiveZ:
		return mgl32.Vec3{s, -t, 1}
	default:
		return mgl32.Vec3{-s, -t, -1}
	}
}
