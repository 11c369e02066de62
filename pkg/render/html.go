package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
)

// viewNode is the node shape embedded in the HTML page.
type viewNode struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Kind     string  `json:"kind"`
	Color    string  `json:"color"`
	Path     string  `json:"path"`
	Raw      string  `json:"raw,omitempty"`
	Children int     `json:"children,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// viewEdge is the edge shape embedded in the HTML page.
type viewEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// viewData is the payload embedded in the HTML page.
type viewData struct {
	Title  string     `json:"title"`
	RootID string     `json:"rootId"`
	Nodes  []viewNode `json:"nodes"`
	Edges  []viewEdge `json:"edges"`
}

// HTML renders a self-contained interactive page for the graph. The page
// embeds the graph and positions directly and needs no network access.
// Pan, zoom, node drag, and hover details are implemented in plain JS.
func HTML(g *graph.Graph, pos layout.Positions, title string) ([]byte, error) {
	if title == "" {
		title = "JSON Atlas"
	}

	data := viewData{
		Title:  title,
		RootID: g.RootID,
		Nodes:  make([]viewNode, 0, len(g.Nodes)),
		Edges:  make([]viewEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		p := pos[n.ID]
		data.Nodes = append(data.Nodes, viewNode{
			ID:       n.ID,
			Label:    n.Label,
			Kind:     n.Kind.String(),
			Color:    n.Color,
			Path:     n.Path.String(),
			Raw:      n.Raw,
			Children: n.Children,
			X:        p.X,
			Y:        p.Y,
		})
	}
	for _, e := range g.Edges {
		data.Edges = append(data.Edges, viewEdge{From: e.From, To: e.To, Label: e.Label})
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal view data: %w", err)
	}
	// Escape closers so the payload can't break out of the script tag.
	safe := strings.ReplaceAll(string(payload), "</", `<\/`)

	page := strings.Replace(viewerHTML, "/*__GRAPH_DATA__*/null", safe, 1)
	page = strings.ReplaceAll(page, "{{TITLE}}", htmlEscape(title))
	return []byte(page), nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{TITLE}}</title>
<style>
:root{--bg:#1A202C;--panel:#2D3748;--bd:#4A5568;--tx:#E2E8F0;--tx2:#A0AEC0;--ac:#63B3ED}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Helvetica,Arial,sans-serif;background:var(--bg);color:var(--tx);overflow:hidden;height:100vh}
#toolbar{display:flex;align-items:center;justify-content:space-between;height:44px;padding:0 16px;background:var(--panel);border-bottom:1px solid var(--bd)}
.title{font-size:14px;font-weight:600}
#stats{font-size:12px;color:var(--tx2)}
.btn{background:var(--bg);border:1px solid var(--bd);color:var(--tx);padding:4px 12px;border-radius:6px;font-size:12px;cursor:pointer;margin-left:8px}
.btn:hover{border-color:var(--ac)}
#canvas{width:100%;height:calc(100vh - 44px);display:block;cursor:grab}
#canvas.panning{cursor:grabbing}
.node{cursor:pointer}
.node rect{stroke:rgba(255,255,255,.25);stroke-width:1;rx:6}
.node.pinned rect{stroke:var(--ac);stroke-width:2}
.node text{font-size:12px;fill:#fff;pointer-events:none;text-anchor:middle;dominant-baseline:central;font-family:ui-monospace,SFMono-Regular,Menlo,monospace}
.edge{stroke:var(--bd);stroke-width:1.2;fill:none}
.edge-label{font-size:10px;fill:var(--tx2);text-anchor:middle;pointer-events:none}
#tooltip{position:fixed;pointer-events:none;background:var(--panel);border:1px solid var(--bd);border-radius:8px;padding:10px 14px;font-size:12px;max-width:360px;box-shadow:0 4px 12px rgba(0,0,0,.5);z-index:100}
#tooltip.hidden{display:none}
.tip-kind{font-weight:600;margin-bottom:2px}
.tip-path{color:var(--tx2);margin-bottom:4px;word-break:break-all;font-family:ui-monospace,Menlo,monospace}
.tip-raw{word-break:break-all;max-height:120px;overflow:hidden;font-family:ui-monospace,Menlo,monospace}
</style>
</head>
<body>
<div id="toolbar">
 <span class="title">{{TITLE}}</span>
 <span>
  <span id="stats"></span>
  <button class="btn" id="btn-reset">Reset</button>
 </span>
</div>
<svg id="canvas"></svg>
<div id="tooltip" class="hidden"></div>
<script>
(function(){
var data = /*__GRAPH_DATA__*/null;
if(!data){return;}

var NS='http://www.w3.org/2000/svg';
var svg=document.getElementById('canvas');
var tooltip=document.getElementById('tooltip');
var NODE_W=120,NODE_H=34,MIN_SCALE=0.1,MAX_SCALE=10;

var view={scale:1,ox:0,oy:0};
var nodeMap={},home={};
data.nodes.forEach(function(n){nodeMap[n.id]=n;home[n.id]={x:n.x,y:n.y};});

document.getElementById('stats').textContent=data.nodes.length+' nodes, '+data.edges.length+' edges';

var root=document.createElementNS(NS,'g');
svg.appendChild(root);
var edgeLayer=document.createElementNS(NS,'g');
var nodeLayer=document.createElementNS(NS,'g');
root.appendChild(edgeLayer);
root.appendChild(nodeLayer);

var edgeEls=[];
data.edges.forEach(function(e){
  var path=document.createElementNS(NS,'path');
  path.setAttribute('class','edge');
  edgeLayer.appendChild(path);
  var label=document.createElementNS(NS,'text');
  label.setAttribute('class','edge-label');
  label.textContent=e.label;
  edgeLayer.appendChild(label);
  edgeEls.push({e:e,path:path,label:label});
});

var nodeEls={};
data.nodes.forEach(function(n){
  var g=document.createElementNS(NS,'g');
  g.setAttribute('class','node');
  var rect=document.createElementNS(NS,'rect');
  rect.setAttribute('width',NODE_W);
  rect.setAttribute('height',NODE_H);
  rect.setAttribute('fill',n.color);
  g.appendChild(rect);
  var text=document.createElementNS(NS,'text');
  text.setAttribute('x',NODE_W/2);
  text.setAttribute('y',NODE_H/2);
  text.textContent=n.label.length>16?n.label.slice(0,15)+'…':n.label;
  g.appendChild(text);
  nodeLayer.appendChild(g);
  nodeEls[n.id]=g;
  attachNodeEvents(g,n);
});

function redraw(){
  root.setAttribute('transform','translate('+view.ox+','+view.oy+') scale('+view.scale+')');
  data.nodes.forEach(function(n){
    nodeEls[n.id].setAttribute('transform','translate('+(n.x-NODE_W/2)+','+(n.y-NODE_H/2)+')');
  });
  edgeEls.forEach(function(el){
    var a=nodeMap[el.e.from],b=nodeMap[el.e.to];
    var mx=(a.x+b.x)/2,my=(a.y+b.y)/2;
    el.path.setAttribute('d','M'+a.x+','+a.y+' Q'+mx+','+my+' '+b.x+','+b.y);
    el.label.setAttribute('x',mx);
    el.label.setAttribute('y',my-4);
  });
}

function center(){
  var minX=Infinity,minY=Infinity,maxX=-Infinity,maxY=-Infinity;
  data.nodes.forEach(function(n){
    minX=Math.min(minX,n.x);maxX=Math.max(maxX,n.x);
    minY=Math.min(minY,n.y);maxY=Math.max(maxY,n.y);
  });
  var w=svg.clientWidth,h=svg.clientHeight;
  view.scale=1;
  view.ox=w/2-(minX+maxX)/2;
  view.oy=h/2-(minY+maxY)/2;
  redraw();
}

// Pan on background drag, node drag on node grab.
var pan=null,drag=null;
svg.addEventListener('mousedown',function(ev){
  if(drag){return;}
  pan={x:ev.clientX,y:ev.clientY,ox:view.ox,oy:view.oy};
  svg.classList.add('panning');
});
window.addEventListener('mousemove',function(ev){
  if(drag){
    drag.n.x=(ev.clientX-view.ox)/view.scale-drag.dx;
    drag.n.y=(ev.clientY-view.oy)/view.scale-drag.dy;
    drag.pinned=true;
    nodeEls[drag.n.id].classList.add('pinned');
    redraw();
    return;
  }
  if(pan){
    view.ox=pan.ox+(ev.clientX-pan.x);
    view.oy=pan.oy+(ev.clientY-pan.y);
    redraw();
  }
});
window.addEventListener('mouseup',function(){
  pan=null;drag=null;
  svg.classList.remove('panning');
});

// Zoom keeps the point under the cursor fixed.
svg.addEventListener('wheel',function(ev){
  ev.preventDefault();
  var factor=ev.deltaY<0?1.15:1/1.15;
  var next=Math.min(MAX_SCALE,Math.max(MIN_SCALE,view.scale*factor));
  factor=next/view.scale;
  view.ox=ev.clientX-(ev.clientX-view.ox)*factor;
  view.oy=ev.clientY-(ev.clientY-view.oy)*factor;
  view.scale=next;
  redraw();
},{passive:false});

function attachNodeEvents(g,n){
  g.addEventListener('mousedown',function(ev){
    ev.stopPropagation();
    drag={n:n,dx:(ev.clientX-view.ox)/view.scale-n.x,dy:(ev.clientY-view.oy)/view.scale-n.y};
  });
  g.addEventListener('mousemove',function(ev){
    tooltip.classList.remove('hidden');
    tooltip.style.left=(ev.clientX+14)+'px';
    tooltip.style.top=(ev.clientY+14)+'px';
    var body='<div class="tip-kind" style="color:'+n.color+'">'+n.kind+'</div>'+
      '<div class="tip-path">'+esc(n.path)+'</div>';
    if(n.raw){body+='<div class="tip-raw">'+esc(n.raw)+'</div>';}
    else{body+='<div class="tip-raw">'+n.children+' children</div>';}
    tooltip.innerHTML=body;
  });
  g.addEventListener('mouseleave',function(){tooltip.classList.add('hidden');});
}

function esc(s){
  return String(s).replace(/&/g,'&amp;').replace(/</g,'&lt;').replace(/>/g,'&gt;');
}

document.getElementById('btn-reset').addEventListener('click',function(){
  data.nodes.forEach(function(n){
    n.x=home[n.id].x;n.y=home[n.id].y;
    nodeEls[n.id].classList.remove('pinned');
  });
  center();
});

center();
})();
</script>
</body>
</html>
`
