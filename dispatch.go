package simdjson

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// The classifier kernel is selected once per process, on first use.
// All kernels produce identical masks; selection only affects throughput.
var (
	kernelOnce   sync.Once
	activeKernel classifierKernel
)

func classifier() classifierKernel {
	kernelOnce.Do(func() {
		activeKernel = selectKernel()
	})
	return activeKernel
}

// selectKernel probes the host CPU and picks the fastest kernel.
// The word-parallel kernel wants cheap unaligned 64-bit loads and fast
// multiplies; on anything modern that is a given, but we probe instead
// of assuming so exotic targets degrade gracefully to the table kernel.
func selectKernel() classifierKernel {
	switch {
	case cpuid.CPU.Supports(cpuid.POPCNT):
		return classifyBlockSWAR
	case cpuid.CPU.Supports(cpuid.ASIMD):
		return classifyBlockSWAR
	default:
		return classifyBlockScalar
	}
}

// SupportedCPU will return whether the CPU is supported.
// Every CPU has a usable kernel; the probe only affects throughput.
func SupportedCPU() bool {
	return true
}
