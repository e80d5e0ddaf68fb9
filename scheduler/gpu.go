package scheduler

import (
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// ReorderCUDADevices returns a new value for CUDA_VISIBLE_DEVICES with the
// GPUs in current ordered by free memory descending (spec.md section 6).
// It shells out to "nvidia-smi --query-gpu=memory.free --format=csv" and
// degrades to returning current unchanged if nvidia-smi is not on PATH or
// its output cannot be parsed -- there is no Go CUDA/NVML client in the
// retrieved example corpus, so this is the documented best-effort
// stdlib os/exec shim (see DESIGN.md).
func ReorderCUDADevices(current string) string {
	if current == "" {
		return current
	}

	out, err := exec.Command("nvidia-smi", "--query-gpu=memory.free", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return current
	}

	free := parseFreeMemory(string(out))
	if len(free) == 0 {
		return current
	}

	ids := strings.Split(current, ",")
	sort.SliceStable(ids, func(i, j int) bool {
		return freeOf(free, ids[i]) > freeOf(free, ids[j])
	})

	return strings.Join(ids, ",")
}

func parseFreeMemory(csv string) []int {
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	out := make([]int, 0, len(lines))

	for _, line := range lines {
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			continue
		}

		out = append(out, n)
	}

	return out
}

func freeOf(free []int, deviceID string) int {
	idx, err := strconv.Atoi(strings.TrimSpace(deviceID))
	if err != nil || idx < 0 || idx >= len(free) {
		return -1
	}

	return free[idx]
}
