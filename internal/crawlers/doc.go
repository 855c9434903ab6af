// Package crawlers 提供文档站点的抓取、解析、归档和PDF渲染功能
//
// # 概述
//
// crawlers包实现单个页面从下载到落盘的全部环节。遍历顺序和结果统计由core包负责,
// 这里的组件都只处理一个URL,彼此通过models包中的类型传递数据。
//
// # 核心组件
//
// ## CollyFetcher
//
// 基于Colly的页面下载器。允许同一URL重复访问(是否跳过由调用方的已处理集合决定),
// 每次请求前从HeaderProvider读取自定义HTTP头部,非2xx响应返回*models.FetchError。
//
//	fetcher := NewCollyFetcher(30*time.Second, headerProvider)
//	body, err := fetcher.Fetch(ctx, "https://help.example.com/zh/cs/")
//
// ## ExtractMenu / PageParser
//
// 基于goquery的解析器。ExtractMenu从种子页的菜单容器中取出全部链接,
// PageParser从内容页中取出标题、正文容器外层HTML和正文中列表里的子链接。
// 所有href都相对页面URL解析为绝对地址,缺少或为空的href直接忽略。
//
//	links, err := ExtractMenu(body, seedURL, models.DefaultMenuSelector)
//	if errors.Is(err, ErrMenuNotFound) {
//	    // 菜单不存在: 空列表,不是致命错误
//	}
//
//	parser := NewPageParser(models.DefaultContentSelector, models.DefaultSubLinkSelector)
//	record, err := parser.Parse(body, pageURL)
//
// ## Archiver
//
// 把原始HTML写入 output/html,把正文片段包装成独立文档后交给Renderer生成 output/pdf。
// 包装文档写在输出目录下的临时文件中,渲染结束后无论成功与否都会删除。
//
//	archiver := NewArchiver("output", models.LayoutHierarchical, renderer)
//	paths, err := archiver.Archive(ctx, record)
//
// 文件名由页面标题得到,\ / * ? : " < > | 替换为 _。
// 层级布局下子目录取URL路径段去掉第一段和最后一段,例如:
//
//	https://help.example.com/zh/cs/product-overview/billing
//	-> output/pdf/cs/product-overview/<标题>.pdf
//
// ## RodRenderer
//
// 基于go-rod的PDF渲染器。浏览器在第一次渲染时启动并在之后复用,调用Close释放。
//
//	renderer := NewRodRenderer(RenderConfig{Headless: true, PrintBackground: true})
//	defer renderer.Close()
//
// ## URLQueue
//
// 并发安全的FIFO队列加已处理集合。入队时不去重,出队后由调用方检查IsProcessed,
// 这样同一URL被多次发现时只会处理一次。
//
//	queue := NewURLQueue()
//	queue.PushAll(menuLinks)
//	for {
//	    u, ok := queue.Pop()
//	    if !ok {
//	        break
//	    }
//	    if queue.IsProcessed(u) {
//	        continue
//	    }
//	    // 处理 u
//	    queue.MarkProcessed(u)
//	}
//
// # 错误处理
//
//   - 下载失败: *models.FetchError, StatusCode为0表示网络层错误
//   - 缺少标题: ErrTitleNotFound, 页面被跳过
//   - 缺少正文容器: ErrContentNotFound, 只保存HTML
//   - 渲染失败: 包装ErrRenderFailed, HTML已保存
package crawlers
