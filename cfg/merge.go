package cfg

// Merge 以 override 为准合并配置，嵌套 map 递归合并
// 只覆盖 defaults 中已有的 key，override 中多出的 key 忽略
func Merge(defaults, override map[string]any) map[string]any {
	r := make(map[string]any, len(defaults))
	for k, v := range defaults {
		ov, ok := override[k]
		if !ok {
			r[k] = v
			continue
		}
		dm, dok := v.(map[string]any)
		om, ook := ov.(map[string]any)
		if dok && ook {
			r[k] = Merge(dm, om)
			continue
		}
		r[k] = ov
	}
	return r
}
