// Package drm provides access to the DRM (Direct Rendering Manager)
// and KMS (Kernel Mode Setting) interfaces of the Linux kernel. It
// opens the device nodes under /dev/dri and exposes the driver behind
// them, while the mode subpackage models the control-plane resources
// (CRTCs, encoders, connectors, planes and framebuffers) through typed
// handles and immutable snapshots, so a graphics stack can be built on
// top of the kernel drm/kms subsystem without driver-dependent code.
package drm
