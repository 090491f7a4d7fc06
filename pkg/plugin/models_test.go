package plugin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newModelServer(t *testing.T, failPath string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == failPath {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("content of " + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStatusNotInstalled(t *testing.T) {
	store := NewModelStore(t.TempDir())

	status := store.GetStatus()
	if status.Installed {
		t.Fatal("空目录不应显示已安装")
	}
	if len(status.Missing) != 4 {
		t.Errorf("应缺少 4 个文件, 实际 %v", status.Missing)
	}
	if _, err := store.InstalledPaths(); err == nil {
		t.Error("未安装时 InstalledPaths 应返回错误")
	}
	if !strings.HasSuffix(status.DetModel, filepath.Join("paddle_weights", "det.onnx")) {
		t.Errorf("检测模型路径错误: %s", status.DetModel)
	}
}

func TestInstall(t *testing.T) {
	srv := newModelServer(t, "")
	store := NewModelStore(t.TempDir(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	var mu sync.Mutex
	var progress []float64
	store.SetProgressCallback(func(p float64) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	})

	if err := store.Install(context.Background()); err != nil {
		t.Fatalf("安装失败: %v", err)
	}
	if !store.IsInstalled() {
		t.Fatalf("安装后应显示已安装: %+v", store.GetStatus())
	}

	paths, err := store.InstalledPaths()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(paths.Dict)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content of /paddle_weights/dict.txt" {
		t.Errorf("字典内容错误: %q", data)
	}

	if len(progress) == 0 || progress[len(progress)-1] != 100 {
		t.Errorf("最后进度应为 100: %v", progress)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Errorf("进度不应回退: %v", progress)
			break
		}
	}
}

func TestInstallSkipsExisting(t *testing.T) {
	requested := make(map[string]bool)
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested[r.URL.Path] = true
		mu.Unlock()
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	store := NewModelStore(t.TempDir(), WithBaseURL(srv.URL))
	dict := store.Paths().Dict
	os.MkdirAll(filepath.Dir(dict), 0755)
	if err := os.WriteFile(dict, []byte("local"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Install(context.Background()); err != nil {
		t.Fatalf("安装失败: %v", err)
	}
	if requested["/paddle_weights/dict.txt"] {
		t.Error("已存在的字典不应重新下载")
	}
	data, _ := os.ReadFile(dict)
	if string(data) != "local" {
		t.Error("已存在的文件不应被覆盖")
	}
}

func TestInstallHTTPError(t *testing.T) {
	srv := newModelServer(t, "/paddle_weights/rec.onnx")
	store := NewModelStore(t.TempDir(), WithBaseURL(srv.URL))

	err := store.Install(context.Background())
	if err == nil || !strings.Contains(err.Error(), "rec.onnx") {
		t.Fatalf("下载失败应指明文件: %v", err)
	}
	if store.IsInstalled() {
		t.Error("下载失败后不应显示已安装")
	}
	if _, statErr := os.Stat(store.Paths().RecModel + ".tmp"); !os.IsNotExist(statErr) {
		t.Error("失败后不应残留临时文件")
	}
	if store.GetStatus().Downloading {
		t.Error("失败后应结束下载状态")
	}
}

func TestInstallCancelled(t *testing.T) {
	srv := newModelServer(t, "")
	store := NewModelStore(t.TempDir(), WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Install(ctx); err == nil {
		t.Fatal("已取消的 context 应返回错误")
	}
}

func TestUninstall(t *testing.T) {
	srv := newModelServer(t, "")
	dir := filepath.Join(t.TempDir(), "models")
	store := NewModelStore(dir, WithBaseURL(srv.URL))

	if err := store.Install(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := store.Uninstall(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("卸载后目录应被删除")
	}
}

func TestDefaultDir(t *testing.T) {
	if store := NewModelStore(""); store.Dir() != DefaultDir() {
		t.Errorf("空目录应使用默认目录: %s", store.Dir())
	}
	if !strings.HasSuffix(DefaultDir(), filepath.Join(".textclicker", "models")) {
		t.Errorf("默认目录错误: %s", DefaultDir())
	}
}
